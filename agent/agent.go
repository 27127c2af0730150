// Base agent shared by every pipeline stage.
//
// Information Hiding:
// - Tool registry and executor hidden
// - History storage and copying hidden
// - Fault normalization hidden: ExecuteTool always returns a ToolResult

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/tools"
)

// Agent owns a private tool registry and an append-only message history.
type Agent struct {
	name     string
	role     string
	registry *tools.Registry
	executor *tools.Executor
	logger   *slog.Logger

	mu      sync.RWMutex
	history []model.Message
}

// New creates a new agent with the given configuration.
func New(config Config) *Agent {
	registry := tools.NewRegistry()
	for _, tool := range config.Tools {
		registry.Register(tool.Metadata().Name, tool)
	}

	return &Agent{
		name:     config.Name,
		role:     config.Role,
		registry: registry,
		executor: tools.NewExecutor(),
		logger:   config.logger().With("agent", config.Name),
	}
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.name
}

// Role returns the agent's role.
func (a *Agent) Role() string {
	return a.role
}

// RegisterTool stores tool under name, replacing any tool already there.
func (a *Agent) RegisterTool(name string, tool tools.Tool) {
	a.registry.Register(name, tool)
}

// ToolNames returns the registered tool names in sorted order.
func (a *Agent) ToolNames() []string {
	return a.registry.Names()
}

// Tools returns metadata for the registered tools.
func (a *Agent) Tools() []tools.ToolMetadata {
	return a.registry.List()
}

// ExecuteTool runs the named tool. Unknown names, errors and panics all come
// back as failure results.
func (a *Agent) ExecuteTool(ctx context.Context, name string, args tools.Args) tools.ToolResult {
	tool, ok := a.registry.Get(name)
	if !ok {
		return tools.FailureResultf("Tool '%s' not found", name)
	}

	res := a.executor.Execute(ctx, tool, args)
	if res.Success() {
		a.logger.Debug("tool executed", "tool", name, "kind", tool.Kind().String())
	} else {
		a.logger.Warn("tool failed", "tool", name, "error", res.Err)
	}
	return res
}

// History returns a copy of every message the agent has emitted, oldest first.
func (a *Agent) History() []model.Message {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]model.Message, len(a.history))
	for i, m := range a.history {
		out[i] = m.Clone()
	}
	return out
}

// Info summarizes the agent.
func (a *Agent) Info() Info {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Info{Name: a.name, Role: a.role, HistoryLength: len(a.history)}
}

// emit builds a message and appends it to the history.
func (a *Agent) emit(content model.Content, calls []model.ToolCallRecord) model.Message {
	msg := model.NewMessage(a.name, content, calls)

	a.mu.Lock()
	a.history = append(a.history, msg.Clone())
	a.mu.Unlock()

	return msg
}

func record(tool string, input map[string]any, output string) model.ToolCallRecord {
	return model.ToolCallRecord{Tool: tool, Input: input, Output: output}
}

// failureText describes why res did not yield the expected payload.
func failureText(res tools.ToolResult) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return fmt.Sprintf("unexpected payload type %T", res.Payload)
}
