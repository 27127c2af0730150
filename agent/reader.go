package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/richinex/reviewer/model"
	"github.com/richinex/reviewer/tools"
)

// SummaryChars bounds the reader's summary before the ellipsis.
const SummaryChars = 300

// Reader loads a paper and splits it into sections.
type Reader struct {
	*Agent
}

// NewReader creates a reader with the loader, PDF and section tools of ts.
func NewReader(ts tools.Toolset, logger *slog.Logger) *Reader {
	cfg := NewBuilder(ReaderName).
		Role(ReaderRole).
		Tool(ts.LoadSample).
		Tool(ts.ExtractPDF).
		Tool(ts.Sections).
		Logger(logger).
		Build()
	return &Reader{Agent: New(cfg)}
}

// Process resolves ref to text (sample paper first, then PDF) and emits a
// ReaderOutput. When neither source works it emits a Failure with an empty
// tool-call trace.
func (r *Reader) Process(ctx context.Context, ref string) model.Message {
	calls := []model.ToolCallRecord{}

	var text string
	loaded := r.ExecuteTool(ctx, ToolLoadSample, tools.Args{"paper_id": ref})
	if doc, ok := tools.PayloadAs[tools.LoadResult](loaded); ok {
		text = doc.Content
		calls = append(calls, record(ToolLoadSample,
			map[string]any{"paper_id": ref},
			"Loaded sample paper: "+ref))
	} else {
		extracted := r.ExecuteTool(ctx, ToolExtractPDF, tools.Args{"pdf_path": ref})
		pdf, ok := tools.PayloadAs[tools.ExtractResult](extracted)
		if !ok {
			return r.emit(model.NewFailure("Failed to load paper: "+failureText(extracted)), nil)
		}
		text = pdf.Text
		calls = append(calls, record(ToolExtractPDF,
			map[string]any{"pdf_path": ref},
			fmt.Sprintf("Extracted %d pages from PDF", pdf.PageCount)))
	}

	found, _ := tools.PayloadAs[tools.SectionsResult](
		r.ExecuteTool(ctx, ToolSections, tools.Args{"text": text}))
	calls = append(calls, record(ToolSections,
		map[string]any{"text_length": model.CharLen(text)},
		fmt.Sprintf("Identified %d sections", found.SectionCount)))

	return r.emit(model.ReaderOutput{
		PaperID:    ref,
		Status:     "success",
		Summary:    summarize(text, found.Sections),
		Sections:   found.Sections,
		TextLength: model.CharLen(text),
		KeyInsights: []string{
			"Paper structure identified and parsed",
			fmt.Sprintf("Extracted %d major sections", found.SectionCount),
			"Ready for detailed review by specialized agents",
		},
	}, calls)
}

// summarize keeps the first SummaryChars characters of the abstract, or of
// the whole text when no abstract was found.
func summarize(text string, sections model.Sections) string {
	src := sections.Abstract
	if src == "" {
		src = text
	}
	if model.CharLen(src) > SummaryChars {
		return model.Truncate(src, SummaryChars) + "..."
	}
	return src
}

var _ Stage[string] = (*Reader)(nil)
