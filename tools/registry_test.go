package tools

import (
	"context"
	"testing"
)

func constTool(name, value string) Tool {
	return NewSync(ToolMetadata{Name: name, Description: "returns " + value}, func(ctx context.Context, args Args) (any, error) {
		return value, nil
	})
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("lookup", constTool("lookup", "first"))
	r.Register("lookup", constTool("lookup", "second"))

	tool, ok := r.Get("lookup")
	if !ok {
		t.Fatal("expected tool to be registered")
	}
	res := NewExecutor().Execute(context.Background(), tool, nil)
	if v, _ := PayloadAs[string](res); v != "second" {
		t.Errorf("expected replacement tool, got %v", res.Payload)
	}
	if len(r.Names()) != 1 {
		t.Errorf("expected one name, got %v", r.Names())
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", constTool("zeta", "z"))
	r.Register("alpha", constTool("alpha", "a"))

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("unexpected names %v", names)
	}
	if !r.Has("alpha") || r.Has("missing") {
		t.Error("Has returned wrong result")
	}
}
