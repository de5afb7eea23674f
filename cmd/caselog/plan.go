package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/caselog/internal/csvio"
	"github.com/gyeh/caselog/internal/exitcode"
	"github.com/gyeh/caselog/internal/logging"
	"github.com/gyeh/caselog/internal/schema"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run column mapping and stats (no writes, no oracle calls)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to case-log CSV file (required)")
	planCmd.Flags().StringVar(&cfg.IDPolicy, "id-policy", "hash", "Patient id policy: hash or prefix")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	table, err := csvio.ReadTable(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read input")
		os.Exit(exitcode.ReadError)
	}

	mapper := &schema.Mapper{}
	mapping, report := mapper.MapColumns(context.Background(), table.Columns)

	fmt.Println("=== caselog plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("Rows:       %d\n", len(table.Rows))
	fmt.Printf("Columns:    %d (%d mapped by rules, %d dropped)\n",
		len(table.Columns), report.RuleMapped, len(report.Dropped))
	fmt.Println()
	fmt.Println("Column mapping:")
	for _, raw := range table.Columns {
		target, ok := mapping[raw]
		if !ok {
			target = "(dropped)"
		}
		fmt.Printf("  %-24s → %-16s %d non-empty\n", raw, target, nonEmptyCount(table.Rows, table.ColumnIndex(raw)))
	}
	if len(report.Dropped) > 0 {
		fmt.Printf("\nUnmapped columns the oracle would be asked about: %s\n",
			strings.Join(report.Dropped, ", "))
	}
	return nil
}

func nonEmptyCount(rows [][]string, idx int) int {
	if idx < 0 {
		return 0
	}
	n := 0
	for _, row := range rows {
		if strings.TrimSpace(row[idx]) != "" {
			n++
		}
	}
	return n
}
