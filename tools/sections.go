// Text analysis tools: sections, citations, quality metrics.
//
// Information Hiding:
// - Heading and citation heuristics hidden behind fixed payload types
// - All analysis is pure; no I/O

package tools

import (
	"context"
	"regexp"
	"strings"

	"github.com/richinex/reviewer/model"
)

// MaxSectionChars caps the text kept per section.
const MaxSectionChars = 500

// SectionsResult is the payload of extract_sections.
type SectionsResult struct {
	Sections     model.Sections `json:"sections"`
	SectionCount int            `json:"section_count"`
}

type sectionRule struct {
	name  string
	start *regexp.Regexp
	// end marks where the section stops; nil runs to the end of the text.
	end *regexp.Regexp
}

var sectionRules = []sectionRule{
	{"abstract", regexp.MustCompile(`(?i)abstract|summary`), regexp.MustCompile(`(?i)introduction|1\.`)},
	{"introduction", regexp.MustCompile(`(?i)introduction|1\.`), regexp.MustCompile(`(?i)method|2\.`)},
	{"methodology", regexp.MustCompile(`(?i)method|methodology|approach|2\.`), regexp.MustCompile(`(?i)result|experiment|3\.`)},
	{"results", regexp.MustCompile(`(?i)result|experiment|evaluation|finding|3\.`), regexp.MustCompile(`(?i)conclusion|4\.|discuss`)},
	{"conclusion", regexp.MustCompile(`(?i)conclusion|future work|4\.`), regexp.MustCompile(`(?i)reference|5\.`)},
	{"references", regexp.MustCompile(`(?i)reference|bibliography`), nil},
}

// ExtractSections locates each fixed section by its first heading keyword and
// ends it at the earliest keyword of the following section. The heading word
// is kept as part of the section text.
func ExtractSections(text string) SectionsResult {
	var sections model.Sections
	for _, rule := range sectionRules {
		loc := rule.start.FindStringIndex(text)
		if loc == nil {
			continue
		}
		end := trimFinalNewline(text, loc[1])
		if rule.end != nil {
			if m := rule.end.FindStringIndex(text[loc[1]:]); m != nil {
				end = loc[1] + m[0]
			}
		}
		sections.Set(rule.name, model.Truncate(text[loc[0]:end], MaxSectionChars))
	}
	return SectionsResult{Sections: sections, SectionCount: sections.NonEmpty()}
}

// trimFinalNewline returns the end-of-text position, excluding one trailing
// newline, but never before from.
func trimFinalNewline(text string, from int) int {
	end := len(text)
	if strings.HasSuffix(text, "\n") && end-1 >= from {
		end--
	}
	return end
}

// SectionsTool returns the extract_sections tool.
func SectionsTool() Tool {
	meta := ToolMetadata{
		Name:        "extract_sections",
		Description: "Identify the standard sections of a paper",
		Parameters: []ToolParameter{
			{Name: "text", ParamType: "string", Description: "Full paper text", Required: true},
		},
	}
	return NewSync(meta, func(ctx context.Context, args Args) (any, error) {
		return ExtractSections(args.String("text")), nil
	})
}
