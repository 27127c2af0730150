// Package mcp provides the review Task Service.
//
// The service tracks review tasks through QUEUED, PROCESSING, COMPLETED and
// FAILED, and exposes them through a single request/response operation set
// (submit_paper, get_status, execute_review, get_trace) that the HTTP and
// stdio transports share.
//
// Information Hiding:
// - Task table and id sequence hidden behind one lock
// - Fault capture during execution hidden
// - Wire encoding hidden in the transports

package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/richinex/reviewer/agent"
	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/orchestration"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusQueued     TaskStatus = "QUEUED"
	StatusProcessing TaskStatus = "PROCESSING"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusFailed     TaskStatus = "FAILED"
)

// IsTerminal reports whether no further transition happens without a new execute.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is one tracked review.
type Task struct {
	ID          string        `json:"task_id"`
	PaperPath   string        `json:"paper_path"`
	Status      TaskStatus    `json:"status"`
	Result      *model.Review `json:"result"`
	Error       string        `json:"error,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	steps []orchestration.Step
}

// Trace is the workflow report of a completed task.
type Trace struct {
	TaskID    string                `json:"task_id"`
	Workflow  orchestration.Report  `json:"workflow"`
	AgentsLog map[string]agent.Info `json:"agents_log"`
}

// Reviewer runs the review pipeline. *orchestration.Orchestrator satisfies it.
type Reviewer interface {
	Run(ctx context.Context, ref string) (orchestration.Run, error)
	AgentsLog() map[string]agent.Info
}

// Service owns the task table.
type Service struct {
	reviewer Reviewer
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time

	mu    sync.Mutex
	seq   int
	tasks map[string]*Task
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServiceMetrics enables Prometheus metrics.
func WithServiceMetrics(m *Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a service around reviewer.
func NewService(reviewer Reviewer, opts ...ServiceOption) *Service {
	s := &Service{
		reviewer: reviewer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		tasks:    make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit registers a new QUEUED task for paperPath.
func (s *Service) Submit(ctx context.Context, paperPath string) Task {
	s.mu.Lock()
	s.seq++
	now := s.now()
	t := &Task{
		ID:          fmt.Sprintf("review_%d", s.seq),
		PaperPath:   paperPath,
		Status:      StatusQueued,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	snapshot := *t
	s.mu.Unlock()

	s.metrics.observeTransition(StatusQueued)
	s.logger.Info("task submitted", "task_id", t.ID, "paper", paperPath)
	return snapshot
}

// Status returns a snapshot of the task.
func (s *Service) Status(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	return *t, nil
}

// Execute runs the review for a task and blocks until it reaches COMPLETED
// or FAILED. Executing a terminal task runs it again and replaces the
// previous outcome. The returned error is non-nil only for unknown ids; a
// failed review is reported through the task status.
//
// Once started, a review is not cancellable: cancelling ctx (for example an
// HTTP client going away) does not abort it.
func (s *Service) Execute(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return Task{}, notFound(id)
	}
	rerun := t.Status.IsTerminal()
	t.Status = StatusProcessing
	t.Error = ""
	t.UpdatedAt = s.now()
	ref := t.PaperPath
	s.mu.Unlock()

	s.metrics.observeTransition(StatusProcessing)
	logger := s.logger.With("task_id", id)
	logger.Info("task processing", "paper", ref, "rerun", rerun)

	start := time.Now()
	run, err := s.run(context.WithoutCancel(ctx), ref)
	elapsed := time.Since(start)

	s.mu.Lock()
	if err != nil {
		t.Status = StatusFailed
		t.Error = err.Error()
		t.Result = nil
		t.steps = nil
	} else {
		review := run.Review
		t.Status = StatusCompleted
		t.Result = &review
		t.steps = run.Steps
	}
	t.UpdatedAt = s.now()
	snapshot := *t
	s.mu.Unlock()

	s.metrics.observeTransition(snapshot.Status)
	s.metrics.observeExecution(snapshot.Status, elapsed)
	if err != nil {
		logger.Error("task failed", "error", err, "duration", elapsed)
	} else {
		logger.Info("task completed", "recommendation", snapshot.Result.OverallRecommendation, "duration", elapsed)
	}
	return snapshot, nil
}

// run calls the reviewer, turning a panic into an error.
func (s *Service) run(ctx context.Context, ref string) (run orchestration.Run, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("review panicked: %v", r)
		}
	}()
	return s.reviewer.Run(ctx, ref)
}

// Trace returns the workflow report of a completed task.
func (s *Service) Trace(ctx context.Context, id string) (Trace, error) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return Trace{}, notFound(id)
	}
	if t.Status != StatusCompleted {
		s.mu.Unlock()
		return Trace{}, notCompleted(id)
	}
	steps := t.steps
	s.mu.Unlock()

	return Trace{
		TaskID:    id,
		Workflow:  orchestration.BuildReport(steps),
		AgentsLog: s.reviewer.AgentsLog(),
	}, nil
}

// Len returns the number of tasks ever submitted.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

var _ Reviewer = (*orchestration.Orchestrator)(nil)
