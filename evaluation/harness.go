package evaluation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/reviewer/model"
)

// Status is the outcome of one test case.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

// Reviewer produces a review for a paper reference.
// *orchestration.Orchestrator satisfies it.
type Reviewer interface {
	Review(ctx context.Context, ref string) (model.Review, error)
}

// TestResult is the outcome of one case.
type TestResult struct {
	TestID            string             `json:"test_id"`
	Name              string             `json:"name"`
	Status            Status             `json:"status"`
	LatencyMS         float64            `json:"latency_ms"`
	ValidationDetails *ValidationDetails `json:"validation_details,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// Harness runs test cases sequentially against a reviewer.
type Harness struct {
	reviewer Reviewer
	cases    []TestCase
	logger   *slog.Logger
	clock    func() time.Time
}

// NewHarness creates a harness. A nil logger discards output.
func NewHarness(reviewer Reviewer, cases []TestCase, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{
		reviewer: reviewer,
		cases:    cases,
		logger:   logger,
		clock:    time.Now,
	}
}

// Run executes every case in order and aggregates the results. Slow cases
// are measured, never aborted.
func (h *Harness) Run(ctx context.Context) Metrics {
	runID := uuid.NewString()
	started := h.clock()
	logger := h.logger.With("run_id", runID)
	logger.Info("evaluation started", "cases", len(h.cases))

	results := make([]TestResult, 0, len(h.cases))
	for _, tc := range h.cases {
		res := h.runCase(ctx, tc)
		logger.Info("case finished",
			"test_id", res.TestID,
			"status", res.Status,
			"latency_ms", res.LatencyMS)
		results = append(results, res)
	}

	m := Aggregate(results)
	m.RunID = runID
	m.StartedAt = started
	logger.Info("evaluation finished",
		"passed", m.Summary.Passed,
		"failed", m.Summary.Failed,
		"errors", m.Summary.Errors)
	return m
}

func (h *Harness) runCase(ctx context.Context, tc TestCase) (res TestResult) {
	res = TestResult{TestID: tc.TestID, Name: tc.Name}
	start := h.clock()

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusError
			res.Error = fmt.Sprintf("panic: %v", r)
			res.ValidationDetails = nil
		}
		res.LatencyMS = roundTo(float64(h.clock().Sub(start))/float64(time.Millisecond), 2)
	}()

	review, err := h.reviewer.Review(ctx, tc.Input.PaperID)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res
	}

	passed, details := Validate(tc.TestID, review)
	res.Status = StatusFailed
	if passed {
		res.Status = StatusPassed
	}
	res.ValidationDetails = &details
	return res
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
