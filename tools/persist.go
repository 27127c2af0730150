package tools

import (
	"context"
	"errors"

	"github.com/richinex/reviewer/storage"
)

// PersistResult is the payload of save_review.
type PersistResult struct {
	Location  string `json:"filepath"`
	SizeBytes int    `json:"size_bytes"`
}

// Persister saves review artifacts through an ArtifactStore.
type Persister struct {
	store storage.ArtifactStore
}

// NewPersister creates a persister backed by store.
func NewPersister(store storage.ArtifactStore) *Persister {
	return &Persister{store: store}
}

// Metadata returns the tool metadata.
func (p *Persister) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "save_review",
		Description: "Persist a review artifact as JSON",
		Parameters: []ToolParameter{
			{Name: "filename", ParamType: "string", Description: "Artifact name", Required: true},
			{Name: "content", ParamType: "object", Description: "Value to serialize", Required: true},
		},
	}
}

// Save writes content under filename.
func (p *Persister) Save(ctx context.Context, filename string, content any) (PersistResult, error) {
	if p.store == nil {
		return PersistResult{}, errors.New("no artifact store configured")
	}
	artifact, err := p.store.Save(ctx, filename, content)
	if err != nil {
		return PersistResult{}, err
	}
	return PersistResult{Location: artifact.Location, SizeBytes: artifact.SizeBytes}, nil
}

// Tool wraps the persister as an async tool.
func (p *Persister) Tool() Tool {
	return NewAsync(p.Metadata(), Go(func(ctx context.Context, args Args) (any, error) {
		res, err := p.Save(ctx, args.String("filename"), args["content"])
		if err != nil {
			return nil, err
		}
		return res, nil
	}))
}
