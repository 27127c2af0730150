package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/richinex/reviewer/agent"
	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/orchestration"
)

// Operation names accepted by HandleRequest.
const (
	OpSubmitPaper   = "submit_paper"
	OpGetStatus     = "get_status"
	OpExecuteReview = "execute_review"
	OpGetTrace      = "get_trace"
)

// Request is one task service call.
type Request struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params,omitempty"`
}

// Response is the union of every operation's reply. Fields that do not apply
// to an operation are omitted; a failed call carries only Error.
type Response struct {
	TaskID    string                `json:"task_id,omitempty"`
	Status    TaskStatus            `json:"status,omitempty"`
	Message   string                `json:"message,omitempty"`
	PaperPath string                `json:"paper_path,omitempty"`
	Review    *model.Review         `json:"review,omitempty"`
	Result    *model.Review         `json:"result,omitempty"`
	Workflow  *orchestration.Report `json:"workflow,omitempty"`
	AgentsLog map[string]agent.Info `json:"agents_log,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool {
	return r.Error != ""
}

// HandleRequest dispatches req and never returns a Go error: every failure,
// including a fault during review execution, is folded into Response.Error.
func (s *Service) HandleRequest(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Error: fmt.Sprintf("internal error: %v", r)}
		}
		outcome := "ok"
		if resp.Failed() {
			outcome = "error"
		}
		s.metrics.observeRequest(operationLabel(req.Operation), outcome)
	}()

	switch req.Operation {
	case OpSubmitPaper:
		path, err := stringParam(req.Params, "paper_path")
		if err != nil {
			return errorResponse(err)
		}
		t := s.Submit(ctx, path)
		return Response{
			TaskID:    t.ID,
			Status:    t.Status,
			Message:   "Paper submitted for review",
			PaperPath: t.PaperPath,
		}

	case OpGetStatus:
		id, err := stringParam(req.Params, "task_id")
		if err != nil {
			return errorResponse(err)
		}
		t, err := s.Status(ctx, id)
		if err != nil {
			return errorResponse(err)
		}
		return Response{TaskID: t.ID, Status: t.Status, PaperPath: t.PaperPath, Result: t.Result, Error: t.Error}

	case OpExecuteReview:
		id, err := stringParam(req.Params, "task_id")
		if err != nil {
			return errorResponse(err)
		}
		t, err := s.Execute(ctx, id)
		if err != nil {
			return errorResponse(err)
		}
		return Response{TaskID: t.ID, Status: t.Status, Review: t.Result, Error: t.Error}

	case OpGetTrace:
		id, err := stringParam(req.Params, "task_id")
		if err != nil {
			return errorResponse(err)
		}
		tr, err := s.Trace(ctx, id)
		if err != nil {
			return errorResponse(err)
		}
		return Response{TaskID: tr.TaskID, Workflow: &tr.Workflow, AgentsLog: tr.AgentsLog}

	default:
		return Response{Error: fmt.Sprintf("Unknown operation: %s", req.Operation)}
	}
}

// ErrMissingParam is wrapped by errors about absent request parameters.
var ErrMissingParam = errors.New("missing required param")

func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string, got %T", key, v)
	}
	return s, nil
}

func errorResponse(err error) Response {
	return Response{Error: err.Error()}
}

// operationLabel bounds the request metric's label values to the known
// operations.
func operationLabel(op string) string {
	switch op {
	case OpSubmitPaper, OpGetStatus, OpExecuteReview, OpGetTrace:
		return op
	default:
		return "unknown"
	}
}
