package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinex/reviewer/orchestration"
)

func TestHandleRequestLifecycle(t *testing.T) {
	svc := NewService(newOrchestrator(t))
	ctx := context.Background()

	submitted := svc.HandleRequest(ctx, Request{
		Operation: OpSubmitPaper,
		Params:    map[string]any{"paper_path": "parsing"},
	})
	require.False(t, submitted.Failed(), submitted.Error)
	assert.Equal(t, "review_1", submitted.TaskID)
	assert.Equal(t, StatusQueued, submitted.Status)
	assert.Equal(t, "Paper submitted for review", submitted.Message)
	assert.Equal(t, "parsing", submitted.PaperPath)

	trace := svc.HandleRequest(ctx, Request{Operation: OpGetTrace, Params: map[string]any{"task_id": "review_1"}})
	assert.Equal(t, "Task review_1 is not completed", trace.Error)
	assert.Nil(t, trace.Workflow)

	executed := svc.HandleRequest(ctx, Request{Operation: OpExecuteReview, Params: map[string]any{"task_id": "review_1"}})
	require.False(t, executed.Failed(), executed.Error)
	assert.Equal(t, StatusCompleted, executed.Status)
	require.NotNil(t, executed.Review)

	status := svc.HandleRequest(ctx, Request{Operation: OpGetStatus, Params: map[string]any{"task_id": "review_1"}})
	assert.Equal(t, StatusCompleted, status.Status)
	assert.Equal(t, executed.Review, status.Result)

	trace = svc.HandleRequest(ctx, Request{Operation: OpGetTrace, Params: map[string]any{"task_id": "review_1"}})
	require.False(t, trace.Failed(), trace.Error)
	require.NotNil(t, trace.Workflow)
	assert.Equal(t, 3, trace.Workflow.TotalSteps)
	assert.Len(t, trace.AgentsLog, 3)
}

func TestHandleRequestErrors(t *testing.T) {
	svc := NewService(newOrchestrator(t))
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"unknown operation", Request{Operation: "delete_everything"}, "Unknown operation: delete_everything"},
		{"missing paper path", Request{Operation: OpSubmitPaper}, "missing required param: paper_path"},
		{"missing task id", Request{Operation: OpGetStatus, Params: map[string]any{}}, "missing required param: task_id"},
		{"wrong param type", Request{Operation: OpGetStatus, Params: map[string]any{"task_id": 7}}, "param task_id must be a string, got int"},
		{"unknown task", Request{Operation: OpExecuteReview, Params: map[string]any{"task_id": "review_42"}}, "Task review_42 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.HandleRequest(ctx, tt.req)
			assert.Equal(t, tt.want, resp.Error)
			assert.Empty(t, resp.TaskID)
		})
	}
}

func TestResponseOmitsUnusedFields(t *testing.T) {
	data, err := json.Marshal(Response{Error: "Unknown operation: x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Unknown operation: x"}`, string(data))
}

func TestHandleRequestRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)
	svc := NewService(fakeReviewer{run: func(ctx context.Context, ref string) (orchestration.Run, error) {
		return orchestration.Run{}, nil
	}}, WithServiceMetrics(m))
	ctx := context.Background()

	svc.HandleRequest(ctx, Request{Operation: OpSubmitPaper, Params: map[string]any{"paper_path": "p"}})
	svc.HandleRequest(ctx, Request{Operation: OpExecuteReview, Params: map[string]any{"task_id": "review_1"}})
	svc.HandleRequest(ctx, Request{Operation: "nope"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(OpSubmitPaper, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unknown", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues(string(StatusCompleted))))

	again := MustNewMetrics(reg)
	assert.Same(t, m.requests, again.requests)
}

func TestUnknownOperationsShareOneSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)
	svc := NewService(newOrchestrator(t), WithServiceMetrics(m))
	ctx := context.Background()

	svc.HandleRequest(ctx, Request{Operation: OpGetStatus, Params: map[string]any{"task_id": "review_9"}})
	for i := 0; i < 25; i++ {
		resp := svc.HandleRequest(ctx, Request{Operation: fmt.Sprintf("op_%d", i)})
		require.Equal(t, fmt.Sprintf("Unknown operation: op_%d", i), resp.Error)
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.requests))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.requests.WithLabelValues("unknown", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(OpGetStatus, "error")))
}
