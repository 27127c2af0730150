package tools

import (
	"strings"
	"testing"

	"github.com/richinex/reviewer/model"
)

const structuredPaper = "Abstract: We propose a new parser. Introduction: Parsing matters. " +
	"Methodology: We train a model. Results: It works. Conclusion: Good. References: [1] Knuth."

func TestExtractSectionsFindsAllSections(t *testing.T) {
	res := ExtractSections(structuredPaper)

	want := model.Sections{
		Abstract:     "Abstract: We propose a new parser. ",
		Introduction: "Introduction: Parsing matters. ",
		Methodology:  "Methodology: We train a model. ",
		Results:      "Results: It works. ",
		Conclusion:   "Conclusion: Good. ",
		References:   "References: [1] Knuth.",
	}
	if res.Sections != want {
		t.Errorf("sections mismatch:\n got %+v\nwant %+v", res.Sections, want)
	}
	if res.SectionCount != 6 {
		t.Errorf("expected 6 sections, got %d", res.SectionCount)
	}
}

func TestExtractSectionsMissing(t *testing.T) {
	res := ExtractSections("a plain note without any headings")
	if res.SectionCount != 0 {
		t.Errorf("expected 0 sections, got %d", res.SectionCount)
	}
	if res.Sections != (model.Sections{}) {
		t.Errorf("expected empty sections, got %+v", res.Sections)
	}
}

func TestExtractSectionsCapsLength(t *testing.T) {
	res := ExtractSections("Abstract " + strings.Repeat("é", 1000))
	if got := model.CharLen(res.Sections.Abstract); got != MaxSectionChars {
		t.Errorf("expected %d characters, got %d", MaxSectionChars, got)
	}
}

func TestExtractCitationsByStyle(t *testing.T) {
	text := "As shown [1] and [2], prior work (Smith et al., 2020) and Brown and Jones (2019) agree."
	res := ExtractCitations(text)

	if got := res.CitationsByStyle[StyleBracket]; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("bracket: %v", got)
	}
	if got := res.CitationsByStyle[StyleParenthetical]; len(got) != 1 || got[0] != "Smith et al., 2020" {
		t.Errorf("parenthetical: %v", got)
	}
	if got := res.CitationsByStyle[StyleAuthorYear]; len(got) != 1 || got[0] != "Brown and Jones (2019)" {
		t.Errorf("author_year: %v", got)
	}
	if res.CitationCount != 4 {
		t.Errorf("expected 4 citations, got %d", res.CitationCount)
	}
}

func TestExtractCitationsCapsPerStyle(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("see [7] ")
	}
	res := ExtractCitations(b.String())
	if res.CitationCount != MaxCitationsPerStyle {
		t.Errorf("expected %d, got %d", MaxCitationsPerStyle, res.CitationCount)
	}
	if got := res.CitationsByStyle[StyleAuthorYear]; got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestAnalyzeTextQualityClean(t *testing.T) {
	res := AnalyzeTextQuality("Short one. Another short one.")
	if res.Metrics.TotalSentences != 2 || res.Metrics.TotalWords != 5 {
		t.Errorf("unexpected counts: %+v", res.Metrics)
	}
	if res.Metrics.AvgSentenceLength != 2.5 {
		t.Errorf("expected 2.5, got %v", res.Metrics.AvgSentenceLength)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues, got %v", res.Issues)
	}
}

func TestAnalyzeTextQualityFlagsLongAndComplex(t *testing.T) {
	text := strings.Repeat("internationalization ", 24) + "internationalization."
	res := AnalyzeTextQuality(text)

	if res.Metrics.AvgSentenceLength != 25 {
		t.Errorf("expected avg 25, got %v", res.Metrics.AvgSentenceLength)
	}
	if res.Metrics.ComplexWordRatio != 1 {
		t.Errorf("expected ratio 1, got %v", res.Metrics.ComplexWordRatio)
	}
	if len(res.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", res.Issues)
	}
	if res.Issues[0] != "Sentences are too long (potential clarity issue)" {
		t.Errorf("unexpected first issue %q", res.Issues[0])
	}
}

func TestAnalyzeTextQualityEmpty(t *testing.T) {
	res := AnalyzeTextQuality("")
	if res.Metrics.AvgSentenceLength != 0 || res.Metrics.ReadabilityScore != 20 {
		t.Errorf("unexpected metrics for empty text: %+v", res.Metrics)
	}
}

// sentences builds n sentences of the given word counts from word.
func sentences(word string, counts ...int) string {
	var b strings.Builder
	for _, n := range counts {
		b.WriteString(strings.TrimSpace(strings.Repeat(word+" ", n)))
		b.WriteString(". ")
	}
	return b.String()
}

func TestAnalyzeTextQualityThresholdsUseRoundedMetrics(t *testing.T) {
	// 6001 words over 300 sentences: 20.0033 rounds to 20.
	counts := make([]int, 300)
	for i := range counts {
		counts[i] = 20
	}
	counts[0] = 21
	res := AnalyzeTextQuality(sentences("a", counts...))
	if res.Metrics.AvgSentenceLength != 20 {
		t.Fatalf("expected rounded avg 20, got %v", res.Metrics.AvgSentenceLength)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues at the rounded threshold, got %v", res.Issues)
	}

	// 376 complex words out of 2500: 0.1504 rounds to 0.15.
	var b strings.Builder
	for i := 0; i < 250; i++ {
		words := make([]string, 10)
		for j := range words {
			words[j] = "a"
			if i*10+j < 376 {
				words[j] = "internationalization"
			}
		}
		b.WriteString(strings.Join(words, " ") + ". ")
	}
	res = AnalyzeTextQuality(b.String())
	if res.Metrics.ComplexWordRatio != 0.15 {
		t.Fatalf("expected rounded ratio 0.15, got %v", res.Metrics.ComplexWordRatio)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues at the rounded threshold, got %v", res.Issues)
	}

	// 21 words per sentence is over.
	res = AnalyzeTextQuality(sentences("a", 21, 21))
	if len(res.Issues) != 1 {
		t.Errorf("expected the long-sentence issue, got %v", res.Issues)
	}
}
