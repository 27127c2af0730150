// Package model provides domain types shared across packages.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ToolCallRecord is one entry of an agent's tool-call trace.
// Input holds a summary of the arguments, never the full document.
type ToolCallRecord struct {
	Tool   string         `json:"tool"`
	Input  map[string]any `json:"input"`
	Output string         `json:"output"`
}

// Content is the typed payload carried by a Message.
// It is implemented only by the records in this package.
type Content interface {
	contentKind() string
}

// Message is the unit of inter-agent communication.
// Treat it as a value: agents never mutate a Message after creating it.
type Message struct {
	Sender    string           `json:"sender"`
	Content   Content          `json:"content"`
	ToolCalls []ToolCallRecord `json:"tool_calls"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewMessage stamps a message with the current time.
func NewMessage(sender string, content Content, calls []ToolCallRecord) Message {
	if calls == nil {
		calls = []ToolCallRecord{}
	}
	return Message{
		Sender:    sender,
		Content:   content,
		ToolCalls: calls,
		Timestamp: time.Now(),
	}
}

// Clone returns a copy whose tool-call slice is not shared.
func (m Message) Clone() Message {
	calls := make([]ToolCallRecord, len(m.ToolCalls))
	copy(calls, m.ToolCalls)
	m.ToolCalls = calls
	return m
}

// ContentKind names the record type carried by the message.
func (m Message) ContentKind() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.contentKind()
}

// Failure is emitted by a stage that could not produce its record.
type Failure struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// NewFailure creates a failed-status payload.
func NewFailure(msg string) Failure {
	return Failure{Status: "failed", Error: msg}
}

func (Failure) contentKind() string { return "failure" }

// SectionNames lists the fixed section keys in document order.
var SectionNames = []string{"abstract", "introduction", "methodology", "results", "conclusion", "references"}

// Sections maps each fixed section name to its extracted text.
// Missing sections are empty strings.
type Sections struct {
	Abstract     string `json:"abstract"`
	Introduction string `json:"introduction"`
	Methodology  string `json:"methodology"`
	Results      string `json:"results"`
	Conclusion   string `json:"conclusion"`
	References   string `json:"references"`
}

// Get returns the section text for name, or "" for unknown names.
func (s Sections) Get(name string) string {
	switch name {
	case "abstract":
		return s.Abstract
	case "introduction":
		return s.Introduction
	case "methodology":
		return s.Methodology
	case "results":
		return s.Results
	case "conclusion":
		return s.Conclusion
	case "references":
		return s.References
	}
	return ""
}

// Set stores text under name. Unknown names are ignored.
func (s *Sections) Set(name, text string) {
	switch name {
	case "abstract":
		s.Abstract = text
	case "introduction":
		s.Introduction = text
	case "methodology":
		s.Methodology = text
	case "results":
		s.Results = text
	case "conclusion":
		s.Conclusion = text
	case "references":
		s.References = text
	}
}

// Values returns the section texts in SectionNames order.
func (s Sections) Values() []string {
	values := make([]string, len(SectionNames))
	for i, name := range SectionNames {
		values[i] = s.Get(name)
	}
	return values
}

// Join concatenates every section with a single space, in SectionNames order.
func (s Sections) Join() string {
	return strings.Join(s.Values(), " ")
}

// NonEmpty counts sections with any text.
func (s Sections) NonEmpty() int {
	n := 0
	for _, v := range s.Values() {
		if v != "" {
			n++
		}
	}
	return n
}

// CharLen counts characters (not bytes) in s.
func CharLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate keeps at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
