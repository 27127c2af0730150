// Command execution for CLI commands.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Server lifecycle hidden
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/richinex/reviewer/evaluation"
	"github.com/richinex/reviewer/mcp"
	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/orchestration"
	"github.com/richinex/reviewer/tools"
)

// ErrEvaluationFailed is returned by Evaluate when any case did not pass.
var ErrEvaluationFailed = errors.New("evaluation did not pass every case")

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// maxPrintedIssues bounds the issues shown by Review.
const maxPrintedIssues = 3

// Review runs the pipeline for one paper and prints a summary. When outPath
// is set the full review is also written there as JSON.
func Review(ctx context.Context, ref, outPath string, opts Options) error {
	p, err := NewPipeline(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	w := opts.out()
	fmt.Fprintf(w, "Reviewing %s...\n\n", ref)

	run, err := p.Orchestrator.Run(ctx, ref)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	printReview(w, run.Review)
	if opts.Verbose {
		fmt.Fprintln(w, "\nWorkflow:")
		for _, s := range run.Steps {
			fmt.Fprintf(w, "  %d. %s (%s, %d tool calls)\n", s.Index, s.Agent, s.Message.ContentKind(), len(s.Message.ToolCalls))
			for _, c := range s.Message.ToolCalls {
				fmt.Fprintf(w, "     - %s: %s\n", c.Tool, c.Output)
			}
		}
	}

	if outPath != "" {
		if err := writeJSON(outPath, run.Review); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nReview written to %s\n", outPath)
	}
	return nil
}

func printReview(w io.Writer, r model.Review) {
	a := r.QualityAssessment
	fmt.Fprintf(w, "Paper:          %s\n", r.PaperID)
	fmt.Fprintf(w, "Quality:        %s (average %.2f)\n", a.OverallQuality, a.AverageScore)
	fmt.Fprintf(w, "Scores:         novelty %d, methodology %d, citations %d, completeness %.1f\n",
		a.NoveltyScore, a.MethodologyScore, a.CitationScore, a.CompletenessScore)
	fmt.Fprintf(w, "Sections:       %d identified, %d characters\n",
		r.ReaderExtraction.SectionsIdentified, r.ReaderExtraction.TextLength)

	fmt.Fprintf(w, "\nIssues (%d):\n", r.Critique.IssueCount)
	for i, is := range r.Critique.Issues {
		if i == maxPrintedIssues {
			fmt.Fprintf(w, "  ... %d more\n", len(r.Critique.Issues)-maxPrintedIssues)
			break
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", is.Severity, is.Category, is.Issue)
	}

	fmt.Fprintf(w, "\nRecommendation: %s\n", r.OverallRecommendation)
	for _, step := range r.NextSteps {
		fmt.Fprintf(w, "  (%s) %s\n", step.Priority, step.Action)
	}
}

// Serve runs the task service until ctx is cancelled, over stdio or HTTP.
func Serve(ctx context.Context, stdio bool, addr string, opts Options) error {
	p, err := NewPipeline(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	logger := opts.logger()
	svc := p.NewService(logger)

	if stdio {
		logger.Info("task service reading stdin")
		err := svc.ServeStdio(ctx, os.Stdin, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if addr == "" {
		addr = opts.Settings.Server.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewRouter(svc, mcp.RouterOptions{Gatherer: p.Registry, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("task service listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down task service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Evaluate runs the fixture suite and prints and saves the report. It
// returns ErrEvaluationFailed when not every case passed.
func Evaluate(ctx context.Context, casesPath, reportPath string, opts Options) error {
	if casesPath == "" {
		casesPath = opts.Settings.Eval.CasesPath
	}
	if reportPath == "" {
		reportPath = opts.Settings.Eval.ReportPath
	}

	cases, err := evaluation.LoadCases(casesPath)
	if err != nil {
		return err
	}

	p, err := NewPipeline(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	metrics := evaluation.NewHarness(p.Orchestrator, cases, opts.logger()).Run(ctx)

	w := opts.out()
	evaluation.PrintReport(w, metrics)
	if err := evaluation.SaveReport(reportPath, metrics); err != nil {
		return err
	}
	fmt.Fprintf(w, "Report saved to: %s\n", reportPath)

	if !metrics.AllPassed() {
		return fmt.Errorf("%w: %d/%d passed", ErrEvaluationFailed, metrics.Summary.Passed, metrics.Summary.TotalTests)
	}
	return nil
}

// ListTools prints the available tools. In verbose mode it also prints
// their parameters and which pipeline agent owns each tool.
func ListTools(verbose bool, opts Options) {
	w := opts.out()
	ts := tools.NewToolset(tools.ToolsetConfig{SamplesDir: opts.Settings.Data.SamplesDir})

	registry := tools.NewRegistry()
	for _, t := range ts.All() {
		registry.Register(t.Metadata().Name, t)
	}

	fmt.Fprintln(w, "Available tools:")
	fmt.Fprintln(w)

	for _, meta := range registry.List() {
		kind := ""
		if t, ok := registry.Get(meta.Name); ok {
			kind = t.Kind().String()
		}
		fmt.Fprintf(w, "  %s [%s]\n", meta, kind)

		if verbose && len(meta.Parameters) > 0 {
			fmt.Fprintln(w, "    Parameters:")
			for _, param := range meta.Parameters {
				req := ""
				if param.Required {
					req = "*"
				}
				fmt.Fprintf(w, "      %s%s: %s - %s\n", param.Name, req, param.ParamType, param.Description)
			}
			fmt.Fprintln(w)
		}
	}

	if !verbose {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Agents:")
	for _, a := range orchestration.NewFromToolset(ts, opts.logger()).Agents() {
		fmt.Fprintf(w, "  %s: %s\n", a.Name(), a.Role())
		fmt.Fprintf(w, "    tools: %s\n", strings.Join(a.ToolNames(), ", "))
	}
}

// ListArtifacts prints stored artifact names starting with prefix.
func ListArtifacts(ctx context.Context, prefix string, opts Options) error {
	store, closeStore, err := OpenStore(opts.Settings)
	if err != nil {
		return err
	}
	defer closeStore()

	names, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}

	w := opts.out()
	if len(names) == 0 {
		fmt.Fprintln(w, "No artifacts found.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write review: %w", err)
	}
	return nil
}
