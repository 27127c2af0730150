// Tool Executor.
//
// Information Hiding:
// - Sync/async dispatch hidden
// - Panic recovery and error normalization hidden

package tools

import (
	"context"
	"fmt"
)

// Executor runs tools exactly once and always returns a ToolResult.
type Executor struct{}

// NewExecutor creates a new tool executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute validates args, runs the tool and waits for its result.
// Returned errors, panics and context cancellation all become failures.
func (e *Executor) Execute(ctx context.Context, tool Tool, args Args) (result ToolResult) {
	if err := tool.Validate(args); err != nil {
		return FailureResult(fmt.Errorf("validation failed: %w", err))
	}

	defer func() {
		if r := recover(); r != nil {
			result = FailureResultf("tool '%s' panicked: %v", tool.meta.Name, r)
		}
	}()

	switch tool.kind {
	case KindSync:
		if tool.syncFn == nil {
			return FailureResultf("tool '%s' has no implementation", tool.meta.Name)
		}
		payload, err := tool.syncFn(ctx, args)
		if err != nil {
			return FailureResult(err)
		}
		return SuccessResult(payload)
	case KindAsync:
		if tool.asyncFn == nil {
			return FailureResultf("tool '%s' has no implementation", tool.meta.Name)
		}
		return await(ctx, tool.meta.Name, tool.asyncFn(ctx, args))
	default:
		return FailureResultf("tool '%s' has unknown kind %d", tool.meta.Name, tool.kind)
	}
}

func await(ctx context.Context, name string, ch <-chan ToolResult) ToolResult {
	if ch == nil {
		return FailureResultf("tool '%s' returned no result channel", name)
	}
	select {
	case <-ctx.Done():
		return FailureResult(fmt.Errorf("tool '%s' cancelled: %w", name, ctx.Err()))
	case res, ok := <-ch:
		if !ok {
			return FailureResultf("tool '%s' finished without a result", name)
		}
		return res
	}
}
