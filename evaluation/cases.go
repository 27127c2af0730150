// Package evaluation runs fixture-driven checks against the review pipeline.
//
// Each TestCase names a paper; the harness reviews it through the
// orchestrator directly, times the call and applies the validator registered
// for the case's test id.
//
// Information Hiding:
// - Fixture file format hidden (JSON or YAML)
// - Per-test-id validation predicates hidden
// - Latency aggregation hidden

package evaluation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestCase is one fixture.
type TestCase struct {
	TestID         string         `yaml:"test_id" json:"test_id"`
	Name           string         `yaml:"name" json:"name"`
	Description    string         `yaml:"description,omitempty" json:"description,omitempty"`
	Input          CaseInput      `yaml:"input" json:"input"`
	ExpectedOutput map[string]any `yaml:"expected_output,omitempty" json:"expected_output,omitempty"`
}

// CaseInput is the pipeline input of a fixture.
type CaseInput struct {
	PaperID string `yaml:"paper_id" json:"paper_id"`
}

// LoadCases reads an ordered list of test cases. JSON files are accepted
// because the YAML decoder reads JSON documents as well.
func LoadCases(path string) ([]TestCase, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("test cases path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test cases: %w", err)
	}

	var cases []TestCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode test cases %s: %w", path, err)
	}

	for i, c := range cases {
		if strings.TrimSpace(c.TestID) == "" {
			return nil, fmt.Errorf("test case %d: test_id is required", i)
		}
	}
	return cases, nil
}
