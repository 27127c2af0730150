// Document loading tools.
//
// Information Hiding:
// - Sample directory layout hidden behind a paper id
// - Document cache hidden

package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultMaxFileSize caps documents read by the loader.
	DefaultMaxFileSize = 10 * 1024 * 1024
	// DefaultCacheSize is the number of documents kept in memory.
	DefaultCacheSize = 64
)

// LoadResult is the payload of load_sample_paper.
type LoadResult struct {
	Content string `json:"content"`
}

// SampleLoader reads bundled sample papers from <dir>/<paper_id>.txt.
type SampleLoader struct {
	dir          string
	maxSizeBytes int64
	cache        *lru.Cache[string, string]
}

// NewSampleLoader creates a loader rooted at dir.
func NewSampleLoader(dir string) *SampleLoader {
	return &SampleLoader{dir: dir, maxSizeBytes: DefaultMaxFileSize}
}

// WithCache keeps up to size documents in an LRU cache. Size <= 0 disables it.
func (l *SampleLoader) WithCache(size int) *SampleLoader {
	if size <= 0 {
		l.cache = nil
		return l
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return l
	}
	l.cache = cache
	return l
}

// WithMaxSize sets the maximum document size in bytes. n <= 0 keeps the
// current limit.
func (l *SampleLoader) WithMaxSize(n int64) *SampleLoader {
	if n > 0 {
		l.maxSizeBytes = n
	}
	return l
}

// Metadata returns the tool metadata.
func (l *SampleLoader) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "load_sample_paper",
		Description: "Load a bundled sample paper by id",
		Parameters: []ToolParameter{
			{Name: "paper_id", ParamType: "string", Description: "Sample paper id (file name without .txt)", Required: true},
		},
	}
}

// Load returns the text of the sample paper.
func (l *SampleLoader) Load(ctx context.Context, paperID string) (LoadResult, error) {
	if paperID == "" {
		return LoadResult{}, errors.New("paper_id cannot be empty")
	}

	if l.cache != nil {
		if content, ok := l.cache.Get(paperID); ok {
			return LoadResult{Content: content}, nil
		}
	}

	path := filepath.Join(l.dir, paperID+".txt")
	if !pathAllowed(path, []string{l.dir}) {
		return LoadResult{}, fmt.Errorf("access to paper '%s' is not allowed", paperID)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{}, fmt.Errorf("Paper not found: %s", paperID)
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read paper metadata: %w", err)
	}
	if info.Size() > l.maxSizeBytes {
		return LoadResult{}, fmt.Errorf("paper too large: %d bytes (max: %d bytes)", info.Size(), l.maxSizeBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read paper: %w", err)
	}

	content := string(data)
	if l.cache != nil {
		l.cache.Add(paperID, content)
	}
	return LoadResult{Content: content}, nil
}

// Tool wraps the loader as a sync tool.
func (l *SampleLoader) Tool() Tool {
	return NewSync(l.Metadata(), func(ctx context.Context, args Args) (any, error) {
		res, err := l.Load(ctx, args.String("paper_id"))
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}
