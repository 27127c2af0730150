// Package tools provides the tool system for review agents.
//
// Information Hiding:
// - Sync and async execution hidden behind one Tool value
// - Tool parameters and payload types hidden in implementations
// - Fault handling internalized: every outcome becomes a ToolResult
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolMetadata describes what a tool does and how to use it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// Args carries keyword-style tool arguments.
type Args map[string]any

// String returns the string argument stored under key, or "" when absent
// or not a string.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Has reports whether key was supplied.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// ToolResult represents the result of a tool execution.
// Success is determined by whether Err is nil.
type ToolResult struct {
	Payload any   `json:"payload,omitempty"`
	Err     error `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for ToolResult.
func (t ToolResult) MarshalJSON() ([]byte, error) {
	if t.Err != nil {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{
			Success: false,
			Error:   t.Err.Error(),
		})
	}
	return json.Marshal(struct {
		Success bool `json:"success"`
		Payload any  `json:"payload"`
	}{
		Success: true,
		Payload: t.Payload,
	})
}

// Success returns true if the tool execution succeeded.
func (t ToolResult) Success() bool {
	return t.Err == nil
}

// SuccessResult creates a successful tool result.
func SuccessResult(payload any) ToolResult {
	return ToolResult{Payload: payload}
}

// FailureResult creates a failed tool result.
func FailureResult(err error) ToolResult {
	return ToolResult{Err: err}
}

// FailureResultf creates a failed tool result with a formatted error message.
func FailureResultf(format string, args ...interface{}) ToolResult {
	return ToolResult{Err: fmt.Errorf(format, args...)}
}

// PayloadAs returns the payload of a successful result as T.
func PayloadAs[T any](r ToolResult) (T, bool) {
	var zero T
	if !r.Success() {
		return zero, false
	}
	v, ok := r.Payload.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Kind tags how a tool runs.
type Kind int

const (
	// KindSync tools run on the caller's goroutine.
	KindSync Kind = iota
	// KindAsync tools run on their own goroutine and deliver one result.
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindAsync:
		return "async"
	default:
		return "unknown"
	}
}

// SyncFunc computes a payload directly.
type SyncFunc func(ctx context.Context, args Args) (any, error)

// AsyncFunc starts work and returns a channel that receives exactly one result.
type AsyncFunc func(ctx context.Context, args Args) <-chan ToolResult

// Tool is a named capability with a fixed execution variant.
//
// Information Hiding: callers go through Executor, which awaits async tools
// the same way it calls sync ones.
type Tool struct {
	meta    ToolMetadata
	kind    Kind
	syncFn  SyncFunc
	asyncFn AsyncFunc
}

// NewSync creates a tool backed by a plain function.
func NewSync(meta ToolMetadata, fn SyncFunc) Tool {
	return Tool{meta: meta, kind: KindSync, syncFn: fn}
}

// NewAsync creates a tool whose function runs in the background.
func NewAsync(meta ToolMetadata, fn AsyncFunc) Tool {
	return Tool{meta: meta, kind: KindAsync, asyncFn: fn}
}

// Go turns a blocking function into an AsyncFunc.
func Go(fn SyncFunc) AsyncFunc {
	return func(ctx context.Context, args Args) <-chan ToolResult {
		ch := make(chan ToolResult, 1)
		go func() {
			defer close(ch)
			defer func() {
				if r := recover(); r != nil {
					ch <- FailureResultf("tool panicked: %v", r)
				}
			}()
			payload, err := fn(ctx, args)
			if err != nil {
				ch <- FailureResult(err)
				return
			}
			ch <- SuccessResult(payload)
		}()
		return ch
	}
}

// Metadata returns tool metadata (name, description, parameters).
func (t Tool) Metadata() ToolMetadata {
	return t.meta
}

// Kind returns the execution variant chosen at construction.
func (t Tool) Kind() Kind {
	return t.kind
}

// Validate checks that all required parameters were supplied.
func (t Tool) Validate(args Args) error {
	for _, p := range t.meta.Parameters {
		if p.Required && !args.Has(p.Name) {
			return fmt.Errorf("missing required parameter '%s'", p.Name)
		}
	}
	return nil
}

// pathAllowed checks if a path is within the allowed paths.
// If allowedPaths is empty, all paths are allowed.
func pathAllowed(path string, allowedPaths []string) bool {
	if len(allowedPaths) == 0 {
		return true
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, allowed := range allowedPaths {
		allowedAbs, err := filepath.Abs(allowed)
		if err != nil {
			continue
		}
		if absPath == allowedAbs || strings.HasPrefix(absPath, allowedAbs+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
