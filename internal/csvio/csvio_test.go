package csvio

import (
	"strings"
	"testing"

	"github.com/gyeh/caselog/internal/model"
)

func TestReadPadsAndTruncates(t *testing.T) {
	in := "a,b,c\n1,2,3\n4,5\n6,7,8,9\n"
	table, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	for i, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("row %d width = %d, want 3", i, len(row))
		}
	}
	if table.Rows[1][2] != "" {
		t.Errorf("short row should pad with empty cell, got %q", table.Rows[1][2])
	}
	if table.Rows[2][2] != "8" {
		t.Errorf("long row should truncate, got %q", table.Rows[2][2])
	}
}

func TestReadEmptyFile(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadQuotedFields(t *testing.T) {
	in := "proc,date\n\"TKA, left\",5/12/23\n"
	table, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Rows[0][0] != "TKA, left" {
		t.Errorf("quoted field = %q", table.Rows[0][0])
	}
}

func TestWriteCanonicalOrder(t *testing.T) {
	proc := "Total Knee Arthroplasty"
	date := "2023-05-12"
	code := "27447"
	records := []model.CaseRecord{
		{ProcedureType: &proc, ProcedureDate: &date, PredictedCPTCode: &code, Confidence: 0.85},
		{Confidence: 0},
	}

	var sb strings.Builder
	if err := Write(&sb, records); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	wantHeader := strings.Join(model.OutputColumns, ",")
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if lines[1] != "Total Knee Arthroplasty,2023-05-12,,,,,27447,,0.85" {
		t.Errorf("row = %q", lines[1])
	}
	if lines[2] != ",,,,,,,,0" {
		t.Errorf("null row = %q", lines[2])
	}
}
