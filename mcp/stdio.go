package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineBytes bounds a single stdio request line.
const maxLineBytes = 4 * 1024 * 1024

// ServeStdio reads newline-delimited JSON requests from in and writes one
// JSON response line per request to out, in order. It returns nil at EOF and
// ctx.Err() when ctx is cancelled.
func (s *Service) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read request: %w", err)
					}
				default:
				}
				return ctx.Err()
			}
			if len(line) == 0 {
				continue
			}

			var resp Response
			var req Request
			if err := json.Unmarshal(line, &req); err != nil {
				resp = Response{Error: "invalid request: " + err.Error()}
			} else {
				resp = s.HandleRequest(ctx, req)
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}
