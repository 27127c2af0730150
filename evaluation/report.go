package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Summary counts case outcomes.
type Summary struct {
	TotalTests  int     `json:"total_tests"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Errors      int     `json:"errors"`
	SuccessRate float64 `json:"success_rate"`
	PassPercent string  `json:"pass_percent"`
}

// Latency aggregates case wall times in milliseconds.
type Latency struct {
	AvgMS float64 `json:"avg_ms"`
	MaxMS float64 `json:"max_ms"`
	MinMS float64 `json:"min_ms"`
}

// Metrics is the report of one evaluation run.
type Metrics struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	Summary     Summary      `json:"summary"`
	Latency     Latency      `json:"latency"`
	TestResults []TestResult `json:"test_results"`
}

// AllPassed reports whether every case passed.
func (m Metrics) AllPassed() bool {
	return m.Summary.Passed == m.Summary.TotalTests
}

// Aggregate computes summary and latency figures over results.
func Aggregate(results []TestResult) Metrics {
	m := Metrics{TestResults: results}
	if m.TestResults == nil {
		m.TestResults = []TestResult{}
	}

	s := Summary{TotalTests: len(results)}
	var sum float64
	for i, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusError:
			s.Errors++
		}

		sum += r.LatencyMS
		if i == 0 || r.LatencyMS > m.Latency.MaxMS {
			m.Latency.MaxMS = r.LatencyMS
		}
		if i == 0 || r.LatencyMS < m.Latency.MinMS {
			m.Latency.MinMS = r.LatencyMS
		}
	}

	rate := 0.0
	if s.TotalTests > 0 {
		rate = float64(s.Passed) / float64(s.TotalTests)
		m.Latency.AvgMS = roundTo(sum/float64(s.TotalTests), 2)
	}
	s.SuccessRate = roundTo(rate*100, 2)
	s.PassPercent = fmt.Sprintf("%.1f%%", roundTo(rate*100, 1))
	m.Summary = s
	m.Latency.MaxMS = roundTo(m.Latency.MaxMS, 2)
	m.Latency.MinMS = roundTo(m.Latency.MinMS, 2)
	return m
}

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePass  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const ruleWidth = 70

// PrintReport writes a human-readable report to w.
func PrintReport(w io.Writer, m Metrics) {
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, styleTitle.Render("EVALUATION REPORT"), rule)

	s := m.Summary
	fmt.Fprintln(w, styleTitle.Render("Summary:"))
	fmt.Fprintf(w, "  %s %d\n", styleLabel.Render("Total Tests:"), s.TotalTests)
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Passed:"), stylePass.Render(fmt.Sprintf("%d ✓", s.Passed)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Failed:"), styleFail.Render(fmt.Sprintf("%d ✗", s.Failed)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Errors:"), styleWarn.Render(fmt.Sprintf("%d ⚠", s.Errors)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Success Rate:"), s.PassPercent)

	fmt.Fprintf(w, "\n%s\n", styleTitle.Render("Latency Metrics:"))
	fmt.Fprintf(w, "  %s %.2fms\n", styleLabel.Render("Average:"), m.Latency.AvgMS)
	fmt.Fprintf(w, "  %s %.2fms\n", styleLabel.Render("Maximum:"), m.Latency.MaxMS)
	fmt.Fprintf(w, "  %s %.2fms\n", styleLabel.Render("Minimum:"), m.Latency.MinMS)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, styleTitle.Render("Test Results:"), rule)
	for _, r := range m.TestResults {
		mark, style := "✗", styleFail
		if r.Status == StatusPassed {
			mark, style = "✓", stylePass
		}
		line := fmt.Sprintf("%s %-10s | %-40s | %-10s (%.2fms)", mark, r.TestID, r.Name, r.Status, r.LatencyMS)
		fmt.Fprintln(w, style.Render(line))
		if r.Error != "" {
			fmt.Fprintf(w, "    %s\n", styleLabel.Render(r.Error))
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", rule)
}

// SaveReport writes m as indented JSON to path, creating parent directories.
func SaveReport(path string, m Metrics) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
