package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Client talks to a task service over newline-delimited JSON, either to a
// child process running `reviewer serve --stdio` or to any pipe pair.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	// broken is set once a response was abandoned; the stream is then out
	// of step and every later call fails.
	broken error
}

type readResult struct {
	line []byte
	err  error
}

// NewClient starts command and connects to its stdin/stdout.
func NewClient(ctx context.Context, command string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to start task service: %w", err)
	}

	c := NewPipeClient(stdin, stdout)
	c.cmd = cmd
	return c, nil
}

// NewPipeClient wraps an already connected request writer and response reader.
func NewPipeClient(w io.WriteCloser, r io.Reader) *Client {
	return &Client{stdin: w, stdout: bufio.NewReader(r)}
}

// Call sends one request and waits for its response line. If ctx ends
// first the pending response is abandoned and the client becomes unusable.
func (c *Client) Call(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return Response{}, c.broken
	}
	if ctx.Err() != nil {
		return Response{}, ctx.Err()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := c.stdin.Write(append(data, '\n')); err != nil {
		return Response{}, fmt.Errorf("failed to write request: %w", err)
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := c.stdout.ReadBytes('\n')
		done <- readResult{line: line, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		c.broken = fmt.Errorf("client unusable: response to %s abandoned: %w", req.Operation, ctx.Err())
		return Response{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", res.err)
	}

	var resp Response
	if err := json.Unmarshal(res.line, &resp); err != nil {
		return Response{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp, nil
}

// SubmitPaper queues ref for review.
func (c *Client) SubmitPaper(ctx context.Context, ref string) (Response, error) {
	return c.Call(ctx, Request{Operation: OpSubmitPaper, Params: map[string]any{"paper_path": ref}})
}

// GetStatus reads a task.
func (c *Client) GetStatus(ctx context.Context, taskID string) (Response, error) {
	return c.Call(ctx, Request{Operation: OpGetStatus, Params: map[string]any{"task_id": taskID}})
}

// ExecuteReview runs a task to completion.
func (c *Client) ExecuteReview(ctx context.Context, taskID string) (Response, error) {
	return c.Call(ctx, Request{Operation: OpExecuteReview, Params: map[string]any{"task_id": taskID}})
}

// GetTrace fetches the workflow of a completed task.
func (c *Client) GetTrace(ctx context.Context, taskID string) (Response, error) {
	return c.Call(ctx, Request{Operation: OpGetTrace, Params: map[string]any{"task_id": taskID}})
}

// Close closes the request stream and stops the child process, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stdin != nil {
		c.stdin.Close()
	}

	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}

	return nil
}
