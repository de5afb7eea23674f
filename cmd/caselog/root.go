package main

import (
	"github.com/spf13/cobra"

	"github.com/gyeh/caselog/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "caselog",
	Short: "Surgical case-log standardizer",
	Long:  "Normalizes messy surgical case-log CSV exports into a standard schema and predicts missing CPT codes.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Minimum log level")
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.CPTRefPath, "cpt-ref", "cpt_codes.csv", "Path to the CPT reference CSV")
}
