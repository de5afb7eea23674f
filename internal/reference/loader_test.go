package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpt.csv")
	data := "code,description,category\n" +
		"27447,Total knee arthroplasty,Orthopedics\n" +
		"27130,Total hip arthroplasty,Orthopedics\n" +
		"27447,duplicate row,Orthopedics\n" +
		",missing code,\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	lex, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lex.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lex.Len())
	}
	e, ok := lex.Lookup("27447")
	if !ok {
		t.Fatal("Lookup(27447) missing")
	}
	if e.Description != "Total knee arthroplasty" {
		t.Errorf("duplicate code should keep first row, got %q", e.Description)
	}
	if _, ok := lex.Lookup("99999"); ok {
		t.Error("Lookup(99999) should miss")
	}
}

func TestLoadMissingFile(t *testing.T) {
	lex, err := Load(filepath.Join(t.TempDir(), "absent.csv"), zerolog.Nop())
	if err != nil {
		t.Fatalf("missing file should not be fatal: %v", err)
	}
	if lex.Len() != 0 {
		t.Errorf("Len() = %d, want 0", lex.Len())
	}
}

func TestLoadMissingCodeColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("description,category\na,b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, zerolog.Nop()); err == nil || !strings.Contains(err.Error(), "code") {
		t.Fatalf("want missing-column error, got %v", err)
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpt.csv")
	if err := os.WriteFile(path, []byte("Code,Description\n47562,Lap chole\n"), 0644); err != nil {
		t.Fatal(err)
	}
	lex, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := lex.Lookup("47562"); !ok || e.Description != "Lap chole" {
		t.Errorf("Lookup(47562) = %+v, %v", e, ok)
	}
}
