// Package agent provides the review pipeline stages.
//
// Contains the stage contract and the types shared by stages.
package agent

import (
	"context"

	"github.com/richinex/reviewer/model"
)

// Stage is a pipeline step that turns one typed input into exactly one Message.
// Process never fails: problems are reported inside the Message content.
type Stage[In any] interface {
	Name() string
	Process(ctx context.Context, in In) model.Message
}

// CriticInput is what the critic stage consumes.
type CriticInput struct {
	Reader     model.ReaderOutput
	Assessment model.Assessment
}

// Info describes an agent for traces and listings.
type Info struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	HistoryLength int    `json:"history_length"`
}

// Agent names and roles.
const (
	ReaderName       = "Reader"
	ReaderRole       = "Content Extractor & Summarizer"
	MetaReviewerName = "MetaReviewer"
	MetaReviewerRole = "Quality & Contribution Assessor"
	CriticName       = "Critic"
	CriticRole       = "Weakness & Issue Identifier"
)

// Tool names the stages look up.
const (
	ToolLoadSample = "load_sample_paper"
	ToolExtractPDF = "extract_pdf"
	ToolSections   = "extract_sections"
	ToolCitations  = "extract_citations"
	ToolQuality    = "analyze_text_quality"
	ToolSave       = "save_review"
)
