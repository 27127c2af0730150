package orchestration

import (
	"fmt"

	"github.com/richinex/reviewer/model"
)

// maxStepDetails bounds the recommendation texts listed per action item.
const maxStepDetails = 3

// Recommend maps the overall grade and critical issue count to a decision.
// Rows are checked top-down; the first match wins.
func Recommend(quality model.Quality, critique model.Critique) model.Recommendation {
	critical := model.CountSeverities(critique.Issues).Critical
	switch {
	case quality == model.QualityExcellent && critical == 0:
		return model.RecommendAccept
	case quality == model.QualityGood && critical == 0:
		return model.RecommendMinorRevisions
	case critical > 0:
		return model.RecommendMajorRevisions
	default:
		return model.RecommendReject
	}
}

// NextSteps derives the action plan: critical issues first, then major
// issues, then presentation polish for well-graded papers.
func NextSteps(quality model.Quality, critique model.Critique) []model.ActionItem {
	var steps []model.ActionItem

	if critical := filterIssues(critique.Issues, model.SeverityCritical); len(critical) > 0 {
		steps = append(steps, model.ActionItem{
			Priority: model.PriorityHigh,
			Action:   fmt.Sprintf("Address %d critical issues", len(critical)),
			Details:  stepDetails(critical),
		})
	}

	if major := filterIssues(critique.Issues, model.SeverityMajor); len(major) > 0 {
		steps = append(steps, model.ActionItem{
			Priority: model.PriorityMedium,
			Action:   fmt.Sprintf("Resolve %d major issues", len(major)),
			Details:  stepDetails(major),
		})
	}

	if quality == model.QualityExcellent || quality == model.QualityGood {
		steps = append(steps, model.ActionItem{
			Priority: model.PriorityLow,
			Action:   "Consider formatting and presentation improvements",
			Details:  []string{"Polish figures and tables", "Proofread for typos"},
		})
	}

	if len(steps) == 0 {
		return []model.ActionItem{{
			Priority: model.PriorityLow,
			Action:   "Paper is ready for submission",
			Details:  []string{},
		}}
	}
	return steps
}

// Compile assembles the final review from the three stage records.
func Compile(reader model.ReaderOutput, assessment model.Assessment, critique model.Critique) model.Review {
	insights := reader.KeyInsights
	if insights == nil {
		insights = []string{}
	}
	if critique.Issues == nil {
		critique.Issues = []model.Issue{}
	}
	if critique.Recommendations == nil {
		critique.Recommendations = []model.PrioritizedRecommendation{}
	}

	return model.Review{
		PaperID:      reader.PaperID,
		ReviewStatus: model.ReviewStatusComplete,
		ReaderExtraction: model.ReaderExtraction{
			Summary:            reader.Summary,
			TextLength:         reader.TextLength,
			SectionsIdentified: reader.Sections.NonEmpty(),
			KeyInsights:        insights,
		},
		QualityAssessment:     assessment,
		Critique:              critique,
		OverallRecommendation: Recommend(assessment.OverallQuality, critique),
		NextSteps:             NextSteps(assessment.OverallQuality, critique),
	}
}

func filterIssues(issues []model.Issue, severity model.Severity) []model.Issue {
	var out []model.Issue
	for _, is := range issues {
		if is.Severity == severity {
			out = append(out, is)
		}
	}
	return out
}

// stepDetails lists the recommendations of the first few issues, falling
// back to the issue text when an issue carries no recommendation.
func stepDetails(issues []model.Issue) []string {
	details := make([]string, 0, maxStepDetails)
	for i, is := range issues {
		if i == maxStepDetails {
			break
		}
		if is.Recommendation != "" {
			details = append(details, is.Recommendation)
		} else {
			details = append(details, is.Issue)
		}
	}
	return details
}
