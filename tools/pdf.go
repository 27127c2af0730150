// PDF text extraction tool.

package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractResult is the payload of extract_pdf.
type ExtractResult struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
}

// PDFExtractor reads the plain text of every page of a PDF file.
type PDFExtractor struct {
	allowedPaths []string
}

// NewPDFExtractor creates a new extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// WithAllowedPaths sets the allowed path prefixes.
func (e *PDFExtractor) WithAllowedPaths(paths []string) *PDFExtractor {
	e.allowedPaths = paths
	return e
}

// Metadata returns the tool metadata.
func (e *PDFExtractor) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "extract_pdf",
		Description: "Extract text from every page of a PDF file",
		Parameters: []ToolParameter{
			{Name: "pdf_path", ParamType: "string", Description: "Path to the PDF file", Required: true},
		},
	}
}

// Extract reads the document. Pages are separated by "--- Page N ---" markers.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (ExtractResult, error) {
	if path == "" {
		return ExtractResult{}, errors.New("pdf_path cannot be empty")
	}
	if !pathAllowed(path, e.allowedPaths) {
		return ExtractResult{}, fmt.Errorf("access to path '%s' is not allowed", path)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ExtractResult{}, fmt.Errorf("PDF not found: %s", path)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return ExtractResult{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return ExtractResult{}, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", i, text)
	}

	return ExtractResult{Text: b.String(), PageCount: pages}, nil
}

// Tool wraps the extractor as an async tool; large documents are parsed
// off the caller's goroutine.
func (e *PDFExtractor) Tool() Tool {
	return NewAsync(e.Metadata(), Go(func(ctx context.Context, args Args) (any, error) {
		res, err := e.Extract(ctx, args.String("pdf_path"))
		if err != nil {
			return nil, err
		}
		return res, nil
	}))
}
