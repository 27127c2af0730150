package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/richinex/reviewer/agent"
	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/storage"
	"github.com/richinex/reviewer/tools"
)

const samplePaper = `Abstract
We propose a novel technique for incremental parsing that reuses prior parse trees to cut latency.

Introduction
Parsers are everywhere [1] [2] [3]. Editors need fast feedback [4] [5].

Methodology
We build a persistent syntax tree and re-parse only damaged regions. Our algorithm tracks edit spans, invalidates affected nodes, and replays the grammar over the smallest enclosing subtree [6] [7].

Results
Latency drops by a factor of ten on large files [8] [9] [10].

Conclusion
Incremental parsing is practical [11] [12].

References
[1] Knuth. [2] Aho.
`

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *storage.MemoryStore) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "parsing.txt"), []byte(samplePaper), 0644); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}
	store := storage.NewMemoryStore()
	ts := tools.NewToolset(tools.ToolsetConfig{SamplesDir: dir, Store: store})
	return NewFromToolset(ts, nil, opts...), store
}

func TestRunSamplePaper(t *testing.T) {
	o, store := newTestOrchestrator(t)

	run, err := o.Run(context.Background(), "parsing")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := run.Review
	if r.PaperID != "parsing" || r.ReviewStatus != model.ReviewStatusComplete {
		t.Errorf("unexpected header %+v", r)
	}
	if r.ReaderExtraction.SectionsIdentified != 6 {
		t.Errorf("expected 6 sections, got %d", r.ReaderExtraction.SectionsIdentified)
	}
	if r.QualityAssessment.OverallQuality != model.QualityGood || r.QualityAssessment.AverageScore != 7.5 {
		t.Errorf("unexpected assessment %+v", r.QualityAssessment)
	}
	if r.Critique.IssueCount != 0 {
		t.Errorf("expected a clean critique, got %+v", r.Critique.Issues)
	}
	if r.OverallRecommendation != model.RecommendMinorRevisions {
		t.Errorf("expected minor revisions, got %s", r.OverallRecommendation)
	}
	if len(r.NextSteps) != 1 || r.NextSteps[0].Priority != model.PriorityLow {
		t.Errorf("unexpected next steps %+v", r.NextSteps)
	}

	if len(run.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(run.Steps))
	}
	for i, name := range []string{agent.ReaderName, agent.MetaReviewerName, agent.CriticName} {
		if run.Steps[i].Agent != name || run.Steps[i].Index != i+1 {
			t.Errorf("step %d: got %s/%d", i, run.Steps[i].Agent, run.Steps[i].Index)
		}
	}

	if store.Len() != 1 {
		t.Errorf("expected the assessment artifact, store has %d entries", store.Len())
	}
}

func TestRunUnknownPaperStillReviews(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	run, err := o.Run(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := run.Review
	if r.PaperID != "missing" {
		t.Errorf("paper id should fall back to the reference, got %q", r.PaperID)
	}
	if r.QualityAssessment.OverallQuality != model.QualityPoor {
		t.Errorf("expected POOR, got %s", r.QualityAssessment.OverallQuality)
	}
	if r.OverallRecommendation != model.RecommendMajorRevisions {
		t.Errorf("expected major revisions, got %s", r.OverallRecommendation)
	}
	if len(r.NextSteps) != 2 || r.NextSteps[0].Action != "Address 3 critical issues" {
		t.Errorf("unexpected next steps %+v", r.NextSteps)
	}

	if _, ok := run.Steps[0].Message.Content.(model.Failure); !ok {
		t.Errorf("reader step should carry the failure, got %T", run.Steps[0].Message.Content)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, "parsing")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(o.History()) != 0 {
		t.Errorf("no stage should have run, history has %d steps", len(o.History()))
	}
}

func TestRunCancelledBetweenStages(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o.reader.RegisterTool(agent.ToolLoadSample, tools.NewSync(
		tools.ToolMetadata{Name: agent.ToolLoadSample},
		func(ctx context.Context, args tools.Args) (any, error) {
			cancel()
			return tools.LoadResult{Content: samplePaper}, nil
		}))

	_, err := o.Run(ctx, "parsing")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h := o.History(); len(h) != 1 || h[0].Agent != agent.ReaderName {
		t.Errorf("only the reader should have run, got %+v", h)
	}
}

func TestHistoryAccumulatesAcrossRuns(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	first, _ := o.Run(ctx, "parsing")
	second, _ := o.Run(ctx, "parsing")

	if len(first.Steps) != 3 || len(second.Steps) != 3 {
		t.Fatalf("per-run steps should not accumulate: %d, %d", len(first.Steps), len(second.Steps))
	}
	if second.Steps[0].Index != 1 {
		t.Errorf("per-run numbering should restart, got %d", second.Steps[0].Index)
	}

	report := o.WorkflowReport()
	if report.TotalSteps != 6 || len(report.AgentsInvolved) != 6 {
		t.Errorf("unexpected report %+v", report)
	}

	log := o.AgentsLog()
	if log["reader_agent"].HistoryLength != 2 || log["critic_agent"].Role != agent.CriticRole {
		t.Errorf("unexpected agents log %+v", log)
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)
	o, _ := newTestOrchestrator(t, WithMetrics(m))

	if _, err := o.Run(context.Background(), "parsing"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := o.Run(context.Background(), "missing"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := testutil.ToFloat64(m.reviews.WithLabelValues(string(model.RecommendMinorRevisions))); got != 1 {
		t.Errorf("expected 1 minor-revision review, got %v", got)
	}
	if got := testutil.ToFloat64(m.stageFallback.WithLabelValues(agent.ReaderName)); got != 1 {
		t.Errorf("expected 1 reader fallback, got %v", got)
	}
	if got := testutil.ToFloat64(m.active); got != 0 {
		t.Errorf("active gauge should return to zero, got %v", got)
	}
	if n := testutil.CollectAndCount(m.stageDuration); n != 4 {
		t.Errorf("expected 4 stage/status series, got %d", n)
	}
}

func TestMustNewMetricsReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := MustNewMetrics(reg)
	b := MustNewMetrics(reg)
	if a.reviews != b.reviews {
		t.Error("expected the registered collector to be reused")
	}
}
