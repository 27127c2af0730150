package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/tools"
)

// Critique thresholds.
const (
	LongSentenceWords = 25.0
	MinAbstractChars  = 50
)

// Critic lists the weaknesses of a paper.
type Critic struct {
	*Agent
}

// NewCritic creates a critic with the quality and citation tools of ts.
func NewCritic(ts tools.Toolset, logger *slog.Logger) *Critic {
	cfg := NewBuilder(CriticName).
		Role(CriticRole).
		Tool(ts.Quality).
		Tool(ts.Citations).
		Logger(logger).
		Build()
	return &Critic{Agent: New(cfg)}
}

// Process runs the text-quality and citation tools and emits a CritiqueReport.
func (c *Critic) Process(ctx context.Context, in CriticInput) model.Message {
	calls := []model.ToolCallRecord{}
	fullText := in.Reader.Sections.Join()
	textLen := model.CharLen(fullText)

	quality, _ := tools.PayloadAs[tools.QualityResult](
		c.ExecuteTool(ctx, ToolQuality, tools.Args{"text": fullText}))
	calls = append(calls, record(ToolQuality,
		map[string]any{"text_length": textLen},
		fmt.Sprintf("Identified %d quality issues", len(quality.Issues))))

	cites, _ := tools.PayloadAs[tools.CitationsResult](
		c.ExecuteTool(ctx, ToolCitations, tools.Args{"text": fullText}))
	calls = append(calls, record(ToolCitations,
		map[string]any{"text_length": textLen},
		fmt.Sprintf("Analyzed %d citations", cites.CitationCount)))

	critique := BuildCritique(in.Reader.Sections, quality, cites.CitationCount, in.Assessment.OverallQuality)

	return c.emit(model.CritiqueReport{
		PaperID:        in.Reader.PaperID,
		Critique:       critique,
		SeverityLevels: model.CountSeverities(critique.Issues),
	}, calls)
}

// BuildCritique checks, in order: text-quality findings, missing methodology,
// missing conclusion, too few citations, long sentences, a short abstract and
// a poor overall grade.
func BuildCritique(sections model.Sections, quality tools.QualityResult, citationCount int, overall model.Quality) model.Critique {
	issues := []model.Issue{}

	for _, text := range quality.Issues {
		issues = append(issues, model.Issue{
			Category: model.CategoryClarity,
			Issue:    text,
			Severity: model.SeverityMajor,
		})
	}

	if sections.Methodology == "" {
		issues = append(issues, model.Issue{
			Category:       model.CategoryStructure,
			Issue:          "Methodology section is missing or unclear",
			Severity:       model.SeverityCritical,
			Recommendation: "Add detailed methodology description",
		})
	}

	if sections.Conclusion == "" {
		issues = append(issues, model.Issue{
			Category:       model.CategoryStructure,
			Issue:          "Conclusion section is missing",
			Severity:       model.SeverityCritical,
			Recommendation: "Add conclusion summarizing findings and future work",
		})
	}

	if citationCount < AdequateCitations {
		issues = append(issues, model.Issue{
			Category:       model.CategoryReferences,
			Issue:          fmt.Sprintf("Insufficient citations (%d found)", citationCount),
			Severity:       model.SeverityMajor,
			Recommendation: "Add more relevant references to support claims",
		})
	}

	if quality.Metrics.AvgSentenceLength > LongSentenceWords {
		issues = append(issues, model.Issue{
			Category:       model.CategoryReadability,
			Issue:          "Sentences are too long on average",
			Severity:       model.SeverityMinor,
			Recommendation: "Break longer sentences into shorter, clearer ones",
		})
	}

	if model.CharLen(sections.Abstract) < MinAbstractChars {
		issues = append(issues, model.Issue{
			Category:       model.CategoryContent,
			Issue:          "Abstract is too brief",
			Severity:       model.SeverityMajor,
			Recommendation: "Expand abstract to properly summarize the paper",
		})
	}

	if overall == model.QualityPoor {
		issues = append(issues, model.Issue{
			Category:       model.CategoryOverall,
			Issue:          "Overall paper quality is poor",
			Severity:       model.SeverityCritical,
			Recommendation: "Major revisions needed across all sections",
		})
	}

	counts := model.CountSeverities(issues)
	return model.Critique{
		IssueCount:      len(issues),
		Issues:          issues,
		Recommendations: prioritize(counts),
		Summary:         summarizeIssues(len(issues), counts),
	}
}

func prioritize(counts model.SeverityCounts) []model.PrioritizedRecommendation {
	var recs []model.PrioritizedRecommendation
	if counts.Critical > 0 {
		recs = append(recs, model.PrioritizedRecommendation{
			Priority:       1,
			Recommendation: fmt.Sprintf("Address %d critical issues before resubmission", counts.Critical),
		})
	}
	if counts.Major > 0 {
		recs = append(recs, model.PrioritizedRecommendation{
			Priority:       2,
			Recommendation: fmt.Sprintf("Resolve %d major issues to improve paper quality", counts.Major),
		})
	}
	return append(recs, model.PrioritizedRecommendation{
		Priority:       3,
		Recommendation: "Consider reviewer feedback and minor improvements",
	})
}

func summarizeIssues(total int, counts model.SeverityCounts) string {
	if total == 0 {
		return "No significant issues identified."
	}
	var parts []string
	if counts.Critical > 0 {
		parts = append(parts, fmt.Sprintf("%d critical", counts.Critical))
	}
	if counts.Major > 0 {
		parts = append(parts, fmt.Sprintf("%d major", counts.Major))
	}
	if counts.Minor > 0 {
		parts = append(parts, fmt.Sprintf("%d minor", counts.Minor))
	}
	return fmt.Sprintf("Identified %d total issues: %s.", total, strings.Join(parts, ", "))
}

var _ Stage[CriticInput] = (*Critic)(nil)
