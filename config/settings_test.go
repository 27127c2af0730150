package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	settings, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Data.SamplesDir != "data/sample_papers" {
		t.Errorf("expected default samples dir, got %q", settings.Data.SamplesDir)
	}
	if settings.Storage.Backend != BackendFile {
		t.Errorf("expected file backend, got %q", settings.Storage.Backend)
	}
	if settings.Tools.CacheSize != 64 {
		t.Errorf("expected cache size 64, got %d", settings.Tools.CacheSize)
	}
	if settings.Tools.MaxPaperBytes != 10*1024*1024 {
		t.Errorf("expected 10MB paper limit, got %d", settings.Tools.MaxPaperBytes)
	}
}

func TestNewPaperLimitFromEnv(t *testing.T) {
	t.Setenv("REVIEWER_TOOLS_MAX_PAPER_BYTES", "2048")

	settings, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Tools.MaxPaperBytes != 2048 {
		t.Errorf("expected 2048, got %d", settings.Tools.MaxPaperBytes)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewer.yaml")
	content := `
data:
  samples_dir: /srv/papers
storage:
  backend: SQLite
  db_path: /srv/reviewer.db
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	settings, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Data.SamplesDir != "/srv/papers" {
		t.Errorf("expected samples dir from file, got %q", settings.Data.SamplesDir)
	}
	if settings.Storage.Backend != BackendSqlite {
		t.Errorf("expected normalized sqlite backend, got %q", settings.Storage.Backend)
	}
	if settings.Server.Addr != ":9090" {
		t.Errorf("expected addr from file, got %q", settings.Server.Addr)
	}
	if settings.Data.ResultsDir != "data/results" {
		t.Errorf("unset keys should keep defaults, got %q", settings.Data.ResultsDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewer.json")
	if err := os.WriteFile(path, []byte(`{"log": {"level": "debug"}}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("REVIEWER_LOG_LEVEL", "warn")
	t.Setenv("REVIEWER_DATA_SAMPLES_DIR", "/env/papers")

	settings, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Log.Level != "warn" {
		t.Errorf("expected env to win, got %q", settings.Log.Level)
	}
	if settings.Data.SamplesDir != "/env/papers" {
		t.Errorf("expected env samples dir, got %q", settings.Data.SamplesDir)
	}
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"memory backend", func(s *Settings) { s.Storage.Backend = BackendMemory }, false},
		{"unknown backend", func(s *Settings) { s.Storage.Backend = "redis" }, true},
		{"empty samples dir", func(s *Settings) { s.Data.SamplesDir = " " }, true},
		{"empty results dir", func(s *Settings) { s.Data.ResultsDir = "" }, true},
		{"sqlite without path", func(s *Settings) {
			s.Storage.Backend = BackendSqlite
			s.Storage.DBPath = ""
		}, true},
		{"bad log format", func(s *Settings) { s.Log.Format = "xml" }, true},
		{"negative cache", func(s *Settings) { s.Tools.CacheSize = -1 }, true},
		{"zero paper size", func(s *Settings) { s.Tools.MaxPaperBytes = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("REVIEWER_STORAGE_BACKEND", "redis")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustNew("")
}

func TestSupportedBackends(t *testing.T) {
	if got := SupportedBackends(); len(got) != 3 {
		t.Errorf("expected 3 backends, got %v", got)
	}
}
