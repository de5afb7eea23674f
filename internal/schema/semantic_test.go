package schema

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeCompleter struct {
	response string
	err      error
	enabled  bool
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.lastUser = user
	return f.response, f.err
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func TestClassifyColumns_ParsesMapping(t *testing.T) {
	fc := &fakeCompleter{
		enabled:  true,
		response: `{"Op Performed": "procedure_type", "Resident": null, "Where": "hospital"}`,
	}
	s := &SemanticMapper{Oracle: fc}

	got, err := s.ClassifyColumns(context.Background(), []string{"Op Performed", "Resident", "Where"})
	if err != nil {
		t.Fatalf("ClassifyColumns: %v", err)
	}
	if got["Op Performed"] != "procedure_type" || got["Where"] != "hospital" {
		t.Errorf("mapping = %v", got)
	}
	if _, ok := got["Resident"]; ok {
		t.Error("null-mapped column should be absent")
	}
	// Prompt carries the canonical column descriptions and the raw header.
	if !strings.Contains(fc.lastUser, "procedure_type") || !strings.Contains(fc.lastUser, "Op Performed") {
		t.Error("prompt missing canonical descriptions or raw columns")
	}
}

func TestClassifyColumns_FencedResponse(t *testing.T) {
	fc := &fakeCompleter{
		enabled:  true,
		response: "```json\n{\"Op\": \"procedure_type\"}\n```",
	}
	s := &SemanticMapper{Oracle: fc}

	got, err := s.ClassifyColumns(context.Background(), []string{"Op"})
	if err != nil {
		t.Fatalf("ClassifyColumns: %v", err)
	}
	if got["Op"] != "procedure_type" {
		t.Errorf("mapping = %v", got)
	}
}

func TestClassifyColumns_MalformedResponse(t *testing.T) {
	fc := &fakeCompleter{enabled: true, response: "not json at all"}
	s := &SemanticMapper{Oracle: fc}

	if _, err := s.ClassifyColumns(context.Background(), []string{"Op"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClassifyColumns_OracleError(t *testing.T) {
	fc := &fakeCompleter{enabled: true, err: fmt.Errorf("boom")}
	s := &SemanticMapper{Oracle: fc}

	if _, err := s.ClassifyColumns(context.Background(), []string{"Op"}); err == nil {
		t.Fatal("expected oracle error")
	}
}

func TestClassifyColumns_DisabledOracle(t *testing.T) {
	s := &SemanticMapper{Oracle: &fakeCompleter{enabled: false}}
	if _, err := s.ClassifyColumns(context.Background(), []string{"Op"}); err == nil {
		t.Fatal("expected error for disabled oracle")
	}
}
