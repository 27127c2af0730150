// Package config provides application settings.
//
// Settings are created via New() which handles:
// - Default value application
// - An optional YAML/JSON/TOML config file
// - REVIEWER_* environment overrides (REVIEWER_DATA_SAMPLES_DIR, ...)
// - Validation

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REVIEWER"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSqlite = "sqlite"
	BackendMemory = "memory"
)

// Settings holds all application configuration.
type Settings struct {
	Data    DataConfig    `mapstructure:"data"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Eval    EvalConfig    `mapstructure:"eval"`
	Tools   ToolsConfig   `mapstructure:"tools"`
}

// DataConfig locates input papers and written artifacts.
type DataConfig struct {
	SamplesDir string `mapstructure:"samples_dir"`
	ResultsDir string `mapstructure:"results_dir"`
	// PDFRoots restricts extract_pdf to these directories; empty allows any path.
	PDFRoots []string `mapstructure:"pdf_roots"`
}

// StorageConfig selects the artifact store.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DBPath  string `mapstructure:"db_path"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EvalConfig locates evaluation fixtures and the report.
type EvalConfig struct {
	CasesPath  string `mapstructure:"cases_path"`
	ReportPath string `mapstructure:"report_path"`
}

// ToolsConfig tunes the review tools.
type ToolsConfig struct {
	CacheSize int `mapstructure:"cache_size"`
	// MaxPaperBytes caps the size of a sample paper the loader will read.
	MaxPaperBytes int64 `mapstructure:"max_paper_bytes"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Data: DataConfig{
			SamplesDir: "data/sample_papers",
			ResultsDir: "data/results",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			DBPath:  "data/reviewer.db",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Eval: EvalConfig{
			CasesPath:  "data/eval/test_cases.json",
			ReportPath: "data/eval/evaluation_report.json",
		},
		Tools: ToolsConfig{CacheSize: 64, MaxPaperBytes: 10 * 1024 * 1024},
	}
}

// New loads settings from defaults, the config file at path (skipped when
// path is empty) and the environment, in increasing precedence.
func New(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	s.Storage.Backend = strings.ToLower(strings.TrimSpace(s.Storage.Backend))

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MustNew loads settings and panics on error.
// Use this only when configuration errors should be fatal.
func MustNew(path string) Settings {
	settings, err := New(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// Validate rejects settings no component can run with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Data.SamplesDir) == "" {
		return fmt.Errorf("data.samples_dir must not be empty")
	}
	switch s.Storage.Backend {
	case BackendFile:
		if strings.TrimSpace(s.Data.ResultsDir) == "" {
			return fmt.Errorf("data.results_dir must not be empty for the file backend")
		}
	case BackendSqlite:
		if strings.TrimSpace(s.Storage.DBPath) == "" {
			return fmt.Errorf("storage.db_path must not be empty for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q (supported: %s)",
			s.Storage.Backend, strings.Join(SupportedBackends(), ", "))
	}
	switch strings.ToLower(s.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", s.Log.Format)
	}
	if s.Tools.CacheSize < 0 {
		return fmt.Errorf("tools.cache_size must not be negative, got %d", s.Tools.CacheSize)
	}
	if s.Tools.MaxPaperBytes <= 0 {
		return fmt.Errorf("tools.max_paper_bytes must be positive, got %d", s.Tools.MaxPaperBytes)
	}
	return nil
}

// SupportedBackends returns the storage backend names.
func SupportedBackends() []string {
	return []string{BackendFile, BackendSqlite, BackendMemory}
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data.samples_dir", d.Data.SamplesDir)
	v.SetDefault("data.results_dir", d.Data.ResultsDir)
	v.SetDefault("data.pdf_roots", d.Data.PDFRoots)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("eval.cases_path", d.Eval.CasesPath)
	v.SetDefault("eval.report_path", d.Eval.ReportPath)
	v.SetDefault("tools.cache_size", d.Tools.CacheSize)
	v.SetDefault("tools.max_paper_bytes", d.Tools.MaxPaperBytes)
}
