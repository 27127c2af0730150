// Agent builder for fluent configuration.
//
// Information Hiding:
// - Builder state management hidden
// - Default value application hidden

package agent

import (
	"fmt"
	"log/slog"

	"github.com/richinex/reviewer/tools"
)

// Builder provides fluent configuration for creating agents.
// Usage: agent.NewBuilder("name") - no stutter.
type Builder struct {
	name   string
	role   string
	tools  []tools.Tool
	logger *slog.Logger
}

// NewBuilder creates a new agent builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		tools: []tools.Tool{},
	}
}

// Role sets the agent's role.
func (b *Builder) Role(role string) *Builder {
	b.role = role
	return b
}

// Tool adds a tool to the agent.
func (b *Builder) Tool(tool tools.Tool) *Builder {
	b.tools = append(b.tools, tool)
	return b
}

// Tools adds multiple tools at once.
func (b *Builder) Tools(toolList []tools.Tool) *Builder {
	b.tools = append(b.tools, toolList...)
	return b
}

// Logger sets the agent's logger.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build creates the agent configuration.
func (b *Builder) Build() Config {
	role := b.role
	if role == "" {
		role = fmt.Sprintf("Agent: %s", b.name)
	}

	return Config{
		Name:   b.name,
		Role:   role,
		Tools:  b.tools,
		Logger: b.logger,
	}
}
