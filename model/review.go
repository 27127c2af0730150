package model

// Quality is the overall quality grade of a paper.
type Quality string

const (
	QualityExcellent Quality = "EXCELLENT"
	QualityGood      Quality = "GOOD"
	QualityFair      Quality = "FAIR"
	QualityPoor      Quality = "POOR"
)

// Severity ranks a critique issue.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
)

// Category groups critique issues.
type Category string

const (
	CategoryClarity     Category = "CLARITY"
	CategoryStructure   Category = "STRUCTURE"
	CategoryReferences  Category = "REFERENCES"
	CategoryReadability Category = "READABILITY"
	CategoryContent     Category = "CONTENT"
	CategoryOverall     Category = "OVERALL"
)

// Recommendation is the final editorial decision.
type Recommendation string

const (
	RecommendAccept         Recommendation = "ACCEPT"
	RecommendMinorRevisions Recommendation = "ACCEPT_WITH_MINOR_REVISIONS"
	RecommendMajorRevisions Recommendation = "MAJOR_REVISIONS_REQUIRED"
	RecommendReject         Recommendation = "REJECT"
)

// Priority orders next-step action items.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ReviewStatusComplete is the only status a compiled Review carries.
const ReviewStatusComplete = "COMPLETE"

// ReaderOutput is produced by the reader stage.
type ReaderOutput struct {
	PaperID     string   `json:"paper_id"`
	Status      string   `json:"status"`
	Summary     string   `json:"summary"`
	Sections    Sections `json:"sections"`
	TextLength  int      `json:"text_length"`
	KeyInsights []string `json:"key_insights"`
}

func (ReaderOutput) contentKind() string { return "reader_output" }

// AssessmentDetails explains the assessment scores.
type AssessmentDetails struct {
	HasClearMethodology  bool   `json:"has_clear_methodology"`
	DemonstratesNovelty  bool   `json:"demonstrates_novelty"`
	AdequateCitations    bool   `json:"adequate_citations"`
	SectionsCompleteness string `json:"sections_completeness"`
}

// Assessment holds the quality scores. Scores range over [0, 10];
// completeness moves in half points.
type Assessment struct {
	NoveltyScore      int               `json:"novelty_score"`
	MethodologyScore  int               `json:"methodology_score"`
	CitationScore     int               `json:"citation_score"`
	CompletenessScore float64           `json:"completeness_score"`
	OverallQuality    Quality           `json:"overall_quality"`
	AverageScore      float64           `json:"average_score"`
	Details           AssessmentDetails `json:"assessment_details"`
}

// AssessmentReport is produced by the meta-review stage.
type AssessmentReport struct {
	PaperID        string     `json:"paper_id"`
	Assessment     Assessment `json:"assessment"`
	CitationsFound int        `json:"citations_found"`
}

func (AssessmentReport) contentKind() string { return "assessment" }

// Issue is a single critique finding.
type Issue struct {
	Category       Category `json:"category"`
	Issue          string   `json:"issue"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// PrioritizedRecommendation is a critique-level recommendation.
type PrioritizedRecommendation struct {
	Priority       int    `json:"priority"`
	Recommendation string `json:"recommendation"`
}

// Critique collects issues in detection order.
type Critique struct {
	IssueCount      int                         `json:"issue_count"`
	Issues          []Issue                     `json:"issues"`
	Recommendations []PrioritizedRecommendation `json:"recommendations"`
	Summary         string                      `json:"summary"`
}

// SeverityCounts tallies issues per severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

// Count returns the number of issues of severity s.
func (c SeverityCounts) Count(s Severity) int {
	switch s {
	case SeverityCritical:
		return c.Critical
	case SeverityMajor:
		return c.Major
	case SeverityMinor:
		return c.Minor
	}
	return 0
}

// CountSeverities tallies issues.
func CountSeverities(issues []Issue) SeverityCounts {
	var c SeverityCounts
	for _, is := range issues {
		switch is.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityMajor:
			c.Major++
		case SeverityMinor:
			c.Minor++
		}
	}
	return c
}

// CritiqueReport is produced by the critic stage.
type CritiqueReport struct {
	PaperID        string         `json:"paper_id"`
	Critique       Critique       `json:"critique"`
	SeverityLevels SeverityCounts `json:"severity_levels"`
}

func (CritiqueReport) contentKind() string { return "critique" }

// ReaderExtraction is the reader summary embedded in a Review.
type ReaderExtraction struct {
	Summary            string   `json:"summary"`
	TextLength         int      `json:"text_length"`
	SectionsIdentified int      `json:"sections_identified"`
	KeyInsights        []string `json:"key_insights"`
}

// ActionItem is one entry of the review's next steps.
type ActionItem struct {
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Details  []string `json:"details"`
}

// Review is the compiled output of one pipeline run.
type Review struct {
	PaperID               string           `json:"paper_id"`
	ReviewStatus          string           `json:"review_status"`
	ReaderExtraction      ReaderExtraction `json:"reader_extraction"`
	QualityAssessment     Assessment       `json:"quality_assessment"`
	Critique              Critique         `json:"critique"`
	OverallRecommendation Recommendation   `json:"overall_recommendation"`
	NextSteps             []ActionItem     `json:"next_steps"`
}
