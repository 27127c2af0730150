// Package orchestration runs the review pipeline.
//
// Reader, MetaReviewer and Critic run strictly in sequence; each stage sees
// the typed record produced by the one before it.
//
// Information Hiding:
// - Stage sequencing and default substitution hidden
// - Workflow history storage hidden
// - Metrics and tracing hidden behind options

package orchestration

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/richinex/reviewer/agent"
	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/tools"
)

const tracerName = "github.com/richinex/reviewer/orchestration"

// Stage status labels.
const (
	statusOK        = "ok"
	statusFallback  = "fallback"
	statusCancelled = "cancelled"
)

// Run is the outcome of one pipeline execution.
type Run struct {
	Review model.Review `json:"review"`
	Steps  []Step       `json:"steps"`
}

// Orchestrator owns the three stage agents and the workflow history.
type Orchestrator struct {
	reader *agent.Reader
	meta   *agent.MetaReviewer
	critic *agent.Critic

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	mu      sync.Mutex
	history []Step
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer overrides the OpenTelemetry tracer. The default comes from the
// global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// New creates an orchestrator over existing agents.
func New(reader *agent.Reader, meta *agent.MetaReviewer, critic *agent.Critic, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reader: reader,
		meta:   meta,
		critic: critic,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFromToolset builds the three agents from ts and wires them together.
func NewFromToolset(ts tools.Toolset, logger *slog.Logger, opts ...Option) *Orchestrator {
	return New(
		agent.NewReader(ts, logger),
		agent.NewMetaReviewer(ts, logger),
		agent.NewCritic(ts, logger),
		append([]Option{WithLogger(logger)}, opts...)...,
	)
}

// Review runs the pipeline and returns the compiled review.
func (o *Orchestrator) Review(ctx context.Context, ref string) (model.Review, error) {
	run, err := o.Run(ctx, ref)
	if err != nil {
		return model.Review{}, err
	}
	return run.Review, nil
}

// Run executes Reader, MetaReviewer and Critic in order. A stage whose
// message does not carry the expected record is replaced with defaults so
// that a review is always produced. The only error is context cancellation
// observed between stages.
func (o *Orchestrator) Run(ctx context.Context, ref string) (Run, error) {
	ctx, span := o.tracer.Start(ctx, "review", trace.WithAttributes(attribute.String("paper.ref", ref)))
	defer span.End()

	o.metrics.start()
	defer o.metrics.done()

	logger := o.logger.With("paper", ref)
	logger.Info("review started")

	var steps []Step

	readerMsg, err := o.stage(ctx, &steps, agent.ReaderName, func(ctx context.Context) model.Message {
		return o.reader.Process(ctx, ref)
	})
	if err != nil {
		return o.abort(span, err)
	}
	readerOut, ok := readerMsg.Content.(model.ReaderOutput)
	if !ok {
		o.fallback(logger, agent.ReaderName, readerMsg)
		readerOut = model.ReaderOutput{PaperID: ref}
	}

	metaMsg, err := o.stage(ctx, &steps, agent.MetaReviewerName, func(ctx context.Context) model.Message {
		return o.meta.Process(ctx, readerOut)
	})
	if err != nil {
		return o.abort(span, err)
	}
	var assessment model.Assessment
	if report, ok := metaMsg.Content.(model.AssessmentReport); ok {
		assessment = report.Assessment
	} else {
		o.fallback(logger, agent.MetaReviewerName, metaMsg)
	}

	criticMsg, err := o.stage(ctx, &steps, agent.CriticName, func(ctx context.Context) model.Message {
		return o.critic.Process(ctx, agent.CriticInput{Reader: readerOut, Assessment: assessment})
	})
	if err != nil {
		return o.abort(span, err)
	}
	var critique model.Critique
	if report, ok := criticMsg.Content.(model.CritiqueReport); ok {
		critique = report.Critique
	} else {
		o.fallback(logger, agent.CriticName, criticMsg)
	}

	review := Compile(readerOut, assessment, critique)
	o.metrics.IncReview(string(review.OverallRecommendation))
	span.SetAttributes(attribute.String("review.recommendation", string(review.OverallRecommendation)))
	logger.Info("review completed",
		"quality", assessment.OverallQuality,
		"issues", critique.IssueCount,
		"recommendation", review.OverallRecommendation)

	return Run{Review: review, Steps: steps}, nil
}

// stage runs one agent and appends its message to both histories.
func (o *Orchestrator) stage(ctx context.Context, steps *[]Step, name string, process func(context.Context) model.Message) (model.Message, error) {
	if err := ctx.Err(); err != nil {
		o.metrics.ObserveStage(name, statusCancelled, 0)
		return model.Message{}, err
	}

	ctx, span := o.tracer.Start(ctx, "stage."+name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	msg := process(ctx)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("tool_calls", len(msg.ToolCalls)),
		attribute.String("content", msg.ContentKind()),
	)

	o.mu.Lock()
	step := Step{Index: len(*steps) + 1, Agent: name, Message: msg}
	o.history = append(o.history, step)
	o.mu.Unlock()
	*steps = append(*steps, step)

	status := statusOK
	if _, failed := msg.Content.(model.Failure); failed {
		status = statusFallback
	}
	o.metrics.ObserveStage(name, status, elapsed)
	o.logger.Debug("stage finished", "stage", name, "duration", elapsed, "tool_calls", len(msg.ToolCalls))

	return msg, nil
}

func (o *Orchestrator) fallback(logger *slog.Logger, stage string, msg model.Message) {
	o.metrics.IncFallback(stage)
	attrs := []any{"stage", stage, "content", msg.ContentKind()}
	if f, ok := msg.Content.(model.Failure); ok {
		attrs = append(attrs, "error", f.Error)
	}
	logger.Warn("stage output unusable, continuing with defaults", attrs...)
}

func (o *Orchestrator) abort(span trace.Span, err error) (Run, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.logger.Warn("review aborted", "error", err)
	return Run{}, err
}

// History returns every step recorded by this orchestrator, across runs.
func (o *Orchestrator) History() []Step {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Step, len(o.history))
	for i, s := range o.history {
		s.Message = s.Message.Clone()
		out[i] = s
	}
	return out
}

// WorkflowReport summarizes the full history.
func (o *Orchestrator) WorkflowReport() Report {
	return BuildReport(o.History())
}

// AgentsLog describes the three agents, keyed by their trace names.
func (o *Orchestrator) AgentsLog() map[string]agent.Info {
	return map[string]agent.Info{
		"reader_agent":        o.reader.Info(),
		"meta_reviewer_agent": o.meta.Info(),
		"critic_agent":        o.critic.Info(),
	}
}

// Agents lists the agents in pipeline order with their tools.
func (o *Orchestrator) Agents() []*agent.Agent {
	return []*agent.Agent{o.reader.Agent, o.meta.Agent, o.critic.Agent}
}
