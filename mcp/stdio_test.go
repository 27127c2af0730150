package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStdioAnswersEachLine(t *testing.T) {
	svc := NewService(newOrchestrator(t))
	in := strings.NewReader(strings.Join([]string{
		`{"operation":"submit_paper","params":{"paper_path":"parsing"}}`,
		``,
		`not json`,
		`{"operation":"get_status","params":{"task_id":"review_1"}}`,
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, svc.ServeStdio(context.Background(), in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var first, second, third Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, "review_1", first.TaskID)
	assert.True(t, strings.HasPrefix(second.Error, "invalid request: "))
	assert.Equal(t, StatusQueued, third.Status)
}

func TestServeStdioStopsOnCancel(t *testing.T) {
	svc := NewService(newOrchestrator(t))
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.ServeStdio(ctx, r, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeStdio did not return after cancel")
	}
}

func TestClientOverPipes(t *testing.T) {
	svc := NewService(newOrchestrator(t))
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = svc.ServeStdio(ctx, reqR, respW)
		respW.Close()
	}()

	client := NewPipeClient(reqW, respR)
	defer client.Close()

	submitted, err := client.SubmitPaper(ctx, "parsing")
	require.NoError(t, err)
	require.Equal(t, "review_1", submitted.TaskID)

	executed, err := client.ExecuteReview(ctx, submitted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, executed.Status)

	status, err := client.GetStatus(ctx, submitted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status.Status)

	trace, err := client.GetTrace(ctx, submitted.TaskID)
	require.NoError(t, err)
	require.NotNil(t, trace.Workflow)
	assert.Equal(t, 3, trace.Workflow.TotalSteps)

	missing, err := client.GetTrace(ctx, "review_9")
	require.NoError(t, err)
	assert.Equal(t, "Task review_9 not found", missing.Error)
}

func TestClientCallHonoursContext(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	defer respW.Close()
	go io.Copy(io.Discard, reqR)

	client := NewPipeClient(reqW, respR)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.SubmitPaper(ctx, "parsing")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	_, err = client.GetStatus(context.Background(), "review_1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "client unusable")
}
