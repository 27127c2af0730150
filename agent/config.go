// Agent configuration types.
//
// Information Hiding:
// - Configuration defaults hidden
// - Logger fallback hidden

package agent

import (
	"io"
	"log/slog"

	"github.com/richinex/reviewer/tools"
)

// Config holds agent configuration.
type Config struct {
	// Name is a unique identifier for the agent.
	Name string

	// Role describes the agent's responsibility in the pipeline.
	Role string

	// Tools are registered under their metadata names.
	Tools []tools.Tool

	// Logger receives tool and stage events. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a basic agent configuration.
func DefaultConfig() Config {
	return Config{
		Name:  "agent",
		Role:  "Pipeline stage",
		Tools: []tools.Tool{},
	}
}

// HasTools returns true if the agent has tools configured.
func (c *Config) HasTools() bool {
	return len(c.Tools) > 0
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
