package tools

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Thresholds for analyze_text_quality.
const (
	MaxAvgSentenceLength = 20.0
	MaxComplexWordRatio  = 0.15
	// ComplexWordChars is the length above which a word counts as complex.
	ComplexWordChars = 12
)

// QualityMetrics are the raw readability measurements.
type QualityMetrics struct {
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	ComplexWordRatio  float64 `json:"complex_word_ratio"`
	TotalSentences    int     `json:"total_sentences"`
	TotalWords        int     `json:"total_words"`
	ReadabilityScore  float64 `json:"readability_score"`
}

// QualityResult is the payload of analyze_text_quality.
type QualityResult struct {
	Metrics QualityMetrics `json:"metrics"`
	Issues  []string       `json:"issues"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// AnalyzeTextQuality measures sentence length and word complexity.
func AnalyzeTextQuality(text string) QualityResult {
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	words := strings.Fields(text)
	complexWords := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > ComplexWordChars {
			complexWords++
		}
	}

	avg := float64(len(words)) / float64(max(sentences, 1))
	ratio := float64(complexWords) / float64(max(len(words), 1))

	res := QualityResult{
		Metrics: QualityMetrics{
			AvgSentenceLength: round(avg, 2),
			ComplexWordRatio:  round(ratio, 3),
			TotalSentences:    sentences,
			TotalWords:        len(words),
			ReadabilityScore:  round(20-avg/2, 1),
		},
		Issues: []string{},
	}
	if res.Metrics.AvgSentenceLength > MaxAvgSentenceLength {
		res.Issues = append(res.Issues, "Sentences are too long (potential clarity issue)")
	}
	if res.Metrics.ComplexWordRatio > MaxComplexWordRatio {
		res.Issues = append(res.Issues, "Too many complex words (potential readability issue)")
	}
	return res
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// QualityTool returns the analyze_text_quality tool.
func QualityTool() Tool {
	meta := ToolMetadata{
		Name:        "analyze_text_quality",
		Description: "Compute readability metrics and flag clarity problems",
		Parameters: []ToolParameter{
			{Name: "text", ParamType: "string", Description: "Text to analyze", Required: true},
		},
	}
	return NewSync(meta, func(ctx context.Context, args Args) (any, error) {
		return AnalyzeTextQuality(args.String("text")), nil
	})
}
