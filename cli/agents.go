// Pipeline wiring for CLI commands.
//
// Information Hiding:
// - Storage backend selection hidden
// - Toolset and agent construction hidden
// - Metrics registry ownership hidden

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/richinex/reviewer/config"
	"github.com/richinex/reviewer/internal/logging"
	"github.com/richinex/reviewer/mcp"
	"github.com/richinex/reviewer/orchestration"
	"github.com/richinex/reviewer/storage"
	"github.com/richinex/reviewer/tools"
)

// Options holds CLI execution options.
type Options struct {
	Settings config.Settings
	Logger   *slog.Logger
	Verbose  bool
	// Out receives command output; defaults to os.Stdout.
	Out io.Writer
}

// DefaultOptions returns options built from the default settings.
func DefaultOptions() Options {
	return Options{
		Settings: config.Default(),
		Logger:   logging.Nop(),
		Out:      os.Stdout,
	}
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

// Pipeline is a fully wired reviewer.
type Pipeline struct {
	Store        storage.ArtifactStore
	Toolset      tools.Toolset
	Orchestrator *orchestration.Orchestrator
	Registry     *prometheus.Registry
	close        func() error
}

// Close releases the artifact store.
func (p *Pipeline) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// NewService wraps the orchestrator in a task service sharing the pipeline's
// metrics registry.
func (p *Pipeline) NewService(logger *slog.Logger) *mcp.Service {
	return mcp.NewService(p.Orchestrator,
		mcp.WithServiceLogger(logger),
		mcp.WithServiceMetrics(mcp.MustNewMetrics(p.Registry)))
}

// NewPipeline opens the configured store and builds the three-stage reviewer.
func NewPipeline(opts Options) (*Pipeline, error) {
	s := opts.Settings
	logger := opts.logger()

	store, closeStore, err := OpenStore(s)
	if err != nil {
		return nil, err
	}

	ts := tools.NewToolset(tools.ToolsetConfig{
		SamplesDir:    s.Data.SamplesDir,
		CacheSize:     s.Tools.CacheSize,
		MaxPaperBytes: s.Tools.MaxPaperBytes,
		PDFRoots:      s.Data.PDFRoots,
		Store:         store,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orch := orchestration.NewFromToolset(ts, logger,
		orchestration.WithMetrics(orchestration.MustNewMetrics(reg)))

	logger.Debug("pipeline ready",
		"samples_dir", s.Data.SamplesDir,
		"storage", s.Storage.Backend)

	return &Pipeline{
		Store:        store,
		Toolset:      ts,
		Orchestrator: orch,
		Registry:     reg,
		close:        closeStore,
	}, nil
}

// OpenStore creates the artifact store selected by settings. The returned
// close function is never nil.
func OpenStore(s config.Settings) (storage.ArtifactStore, func() error, error) {
	noop := func() error { return nil }

	switch s.Storage.Backend {
	case config.BackendFile, "":
		return storage.NewFileStore(s.Data.ResultsDir), noop, nil
	case config.BackendSqlite:
		db, err := storage.OpenSqlite(s.Storage.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open artifact database: %w", err)
		}
		return db, db.Close, nil
	case config.BackendMemory:
		return storage.NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", s.Storage.Backend)
	}
}
