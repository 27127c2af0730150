package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/tools"
)

// AdequateCitations is the citation count considered sufficient.
const AdequateCitations = 10

var noveltyWords = []string{"novel", "new", "first", "propose", "introduce"}

// MetaReviewer scores a paper and persists the assessment.
type MetaReviewer struct {
	*Agent
}

// NewMetaReviewer creates a meta-reviewer with the citation and save tools of ts.
func NewMetaReviewer(ts tools.Toolset, logger *slog.Logger) *MetaReviewer {
	cfg := NewBuilder(MetaReviewerName).
		Role(MetaReviewerRole).
		Tool(ts.Citations).
		Tool(ts.Persist).
		Logger(logger).
		Build()
	return &MetaReviewer{Agent: New(cfg)}
}

// Process assesses in and saves the result as <id>_assessment.json, where id
// is the paper reference reduced to a flat name.
// A failed save is noted in the trace; the assessment is still emitted.
func (m *MetaReviewer) Process(ctx context.Context, in model.ReaderOutput) model.Message {
	calls := []model.ToolCallRecord{}
	fullText := in.Sections.Join()

	cites, _ := tools.PayloadAs[tools.CitationsResult](
		m.ExecuteTool(ctx, ToolCitations, tools.Args{"text": fullText}))
	calls = append(calls, record(ToolCitations,
		map[string]any{"text_length": model.CharLen(fullText)},
		fmt.Sprintf("Found %d citations", cites.CitationCount)))

	assessment := Assess(in.Sections, cites.CitationCount)

	filename := artifactID(in.PaperID) + "_assessment.json"
	saved := m.ExecuteTool(ctx, ToolSave, tools.Args{"filename": filename, "content": assessment})
	output := "Saved to unknown"
	if res, ok := tools.PayloadAs[tools.PersistResult](saved); ok {
		output = "Saved to " + res.Location
	} else if saved.Err != nil {
		output = "Failed to save: " + saved.Err.Error()
	}
	calls = append(calls, record(ToolSave, map[string]any{"filename": filename}, output))

	return m.emit(model.AssessmentReport{
		PaperID:        in.PaperID,
		Assessment:     assessment,
		CitationsFound: cites.CitationCount,
	}, calls)
}

// artifactID turns a paper reference into a flat artifact name: sample ids
// pass through, PDF paths keep only their base name without the extension.
func artifactID(ref string) string {
	id := filepath.Base(filepath.ToSlash(ref))
	if strings.EqualFold(filepath.Ext(id), ".pdf") {
		id = strings.TrimSuffix(id, filepath.Ext(id))
	}
	if id == "" || id == "." || id == "/" || id == ".." {
		return "paper"
	}
	return id
}

// Assess computes the quality scores for a paper.
func Assess(sections model.Sections, citationCount int) model.Assessment {
	abstract := strings.ToLower(sections.Abstract)
	novel := false
	for _, w := range noveltyWords {
		if strings.Contains(abstract, w) {
			novel = true
			break
		}
	}
	novelty := 5
	if novel {
		novelty = 7
	}

	hasMethodology := model.CharLen(sections.Methodology) > 100
	methodology := 4
	if hasMethodology {
		methodology = 8
	}

	citation := min(10, 3+citationCount/5)

	present := sections.NonEmpty()
	completeness := math.Min(10, 2+1.5*float64(present))

	avg := (float64(novelty+methodology+citation) + completeness) / 4

	return model.Assessment{
		NoveltyScore:      novelty,
		MethodologyScore:  methodology,
		CitationScore:     citation,
		CompletenessScore: completeness,
		OverallQuality:    grade(avg),
		AverageScore:      math.Round(avg*100) / 100,
		Details: model.AssessmentDetails{
			HasClearMethodology:  hasMethodology,
			DemonstratesNovelty:  novel,
			AdequateCitations:    citationCount >= AdequateCitations,
			SectionsCompleteness: fmt.Sprintf("%d/%d major sections", present, len(model.SectionNames)),
		},
	}
}

func grade(avg float64) model.Quality {
	switch {
	case avg >= 8:
		return model.QualityExcellent
	case avg >= 6:
		return model.QualityGood
	case avg >= 4:
		return model.QualityFair
	default:
		return model.QualityPoor
	}
}

var _ Stage[model.ReaderOutput] = (*MetaReviewer)(nil)
