package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gyeh/caselog/internal/normalize"
)

// Config holds all runtime configuration for a caselog run.
type Config struct {
	DSN         string
	FilePath    string
	OutputPath  string
	ParquetPath string
	LexiconPath string
	CPTRefPath  string
	LogFormat   string // "text" or "json"
	LogLevel    string
	Year        int
	IDPolicy    string
	NoAI        bool
	Addr        string
	UploadDir   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// LoadEnv reads .env.local when present and fills env-backed fields that
// flags left empty. Missing files are not an error.
func (c *Config) LoadEnv() {
	_ = godotenv.Load(".env.local")

	if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = os.Getenv("OPENAI_MODEL")
	}
	if c.DSN == "" {
		c.DSN = os.Getenv("DATABASE_URL")
	}
}

// Policy parses the configured patient id policy.
func (c *Config) Policy() (normalize.PatientIDPolicy, error) {
	return normalize.ParsePatientIDPolicy(c.IDPolicy)
}

// Validate checks required fields for a standardize run.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if !strings.EqualFold(ext(c.FilePath), ".csv") {
		return fmt.Errorf("only .csv input is supported")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// ValidateServe checks fields the serve command needs.
func (c *Config) ValidateServe() error {
	if c.Addr == "" {
		return fmt.Errorf("--addr is required")
	}
	return nil
}

// ValidateWithDSN additionally requires a database connection string.
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

func ext(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}
