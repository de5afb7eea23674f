package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gyeh/caselog/internal/normalize"
)

func csvFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	if err := os.WriteFile(path, []byte("Procedure\nTKA\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate(t *testing.T) {
	cfg := Config{FilePath: csvFixture(t), IDPolicy: "hash"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	cfg := Config{IDPolicy: "hash"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "--file") {
		t.Fatalf("err = %v", err)
	}

	cfg.FilePath = filepath.Join(t.TempDir(), "absent.csv")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsNonCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Config{FilePath: path, IDPolicy: "hash"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-csv input")
	}
}

func TestValidateBadPolicy(t *testing.T) {
	cfg := Config{FilePath: csvFixture(t), IDPolicy: "guess"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown id policy")
	}
}

func TestPolicy(t *testing.T) {
	cfg := Config{IDPolicy: "prefix"}
	p, err := cfg.Policy()
	if err != nil {
		t.Fatal(err)
	}
	if p != normalize.PolicyPrefix {
		t.Errorf("Policy = %v", p)
	}
}

func TestLoadEnvFillsEmptyFields(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg := Config{DSN: "postgres://flag"}
	cfg.LoadEnv()
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.DSN != "postgres://flag" {
		t.Errorf("flag value should win over env, got %q", cfg.DSN)
	}
}
