package tools

import (
	"context"
	"regexp"
)

// MaxCitationsPerStyle caps matches kept for each citation style.
const MaxCitationsPerStyle = 10

// Citation styles recognized by ExtractCitations.
const (
	StyleBracket       = "bracket"
	StyleParenthetical = "parenthetical"
	StyleAuthorYear    = "author_year"
)

// CitationsResult is the payload of extract_citations.
type CitationsResult struct {
	CitationCount    int                 `json:"citation_count"`
	CitationsByStyle map[string][]string `json:"citations_by_style"`
}

var citationStyles = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{StyleBracket, regexp.MustCompile(`\[(\d+)\]`)},
	{StyleParenthetical, regexp.MustCompile(`\(([A-Z][a-z]+\set\sal\.,?\s?\d{4})\)`)},
	{StyleAuthorYear, regexp.MustCompile(`([A-Z][a-z]+\s+(?:and\s+)?(?:[A-Z][a-z]+)?\s+\(\d{4}\))`)},
}

// ExtractCitations finds bracket ([12]), parenthetical ((Smith et al., 2020))
// and author-year (Smith and Jones (2019)) references. The count is the sum
// of the capped per-style lists.
func ExtractCitations(text string) CitationsResult {
	res := CitationsResult{CitationsByStyle: make(map[string][]string, len(citationStyles))}
	for _, style := range citationStyles {
		found := []string{}
		for _, m := range style.pattern.FindAllStringSubmatch(text, -1) {
			if len(found) == MaxCitationsPerStyle {
				break
			}
			found = append(found, m[1])
		}
		res.CitationsByStyle[style.name] = found
		res.CitationCount += len(found)
	}
	return res
}

// CitationsTool returns the extract_citations tool.
func CitationsTool() Tool {
	meta := ToolMetadata{
		Name:        "extract_citations",
		Description: "Find and count citations by style",
		Parameters: []ToolParameter{
			{Name: "text", ParamType: "string", Description: "Text to scan", Required: true},
		},
	}
	return NewSync(meta, func(ctx context.Context, args Args) (any, error) {
		return ExtractCitations(args.String("text")), nil
	})
}
