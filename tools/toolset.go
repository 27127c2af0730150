package tools

import "github.com/richinex/reviewer/storage"

// Toolset holds one instance of every review tool.
type Toolset struct {
	LoadSample Tool
	ExtractPDF Tool
	Sections   Tool
	Citations  Tool
	Quality    Tool
	Persist    Tool
}

// ToolsetConfig configures NewToolset.
type ToolsetConfig struct {
	SamplesDir string
	CacheSize  int
	// MaxPaperBytes caps sample paper size; <= 0 keeps DefaultMaxFileSize.
	MaxPaperBytes int64
	// PDFRoots restricts extract_pdf; empty allows any path.
	PDFRoots []string
	Store    storage.ArtifactStore
}

// NewToolset builds the standard tools.
func NewToolset(cfg ToolsetConfig) Toolset {
	return Toolset{
		LoadSample: NewSampleLoader(cfg.SamplesDir).WithCache(cfg.CacheSize).WithMaxSize(cfg.MaxPaperBytes).Tool(),
		ExtractPDF: NewPDFExtractor().WithAllowedPaths(cfg.PDFRoots).Tool(),
		Sections:   SectionsTool(),
		Citations:  CitationsTool(),
		Quality:    QualityTool(),
		Persist:    NewPersister(cfg.Store).Tool(),
	}
}

// All returns the tools in a stable order.
func (t Toolset) All() []Tool {
	return []Tool{t.LoadSample, t.ExtractPDF, t.Sections, t.Citations, t.Quality, t.Persist}
}
