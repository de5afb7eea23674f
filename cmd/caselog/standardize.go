package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/caselog/internal/exitcode"
	"github.com/gyeh/caselog/internal/logging"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/predict"
	"github.com/gyeh/caselog/internal/process"
	"github.com/gyeh/caselog/internal/reference"
	"github.com/gyeh/caselog/internal/schema"
)

var standardizeCmd = &cobra.Command{
	Use:   "standardize",
	Short: "Standardize a case-log CSV file",
	RunE:  runStandardize,
}

func init() {
	f := standardizeCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to case-log CSV file (required)")
	f.StringVar(&cfg.OutputPath, "output", "standardized.csv", "Path for the standardized CSV output")
	f.StringVar(&cfg.ParquetPath, "parquet", "", "Also write a Parquet export to this path")
	f.StringVar(&cfg.LexiconPath, "lexicon", "", "YAML file with abbreviation table overrides")
	f.IntVar(&cfg.Year, "year", normalize.DefaultYear, "Year assumed for dates that omit one")
	f.StringVar(&cfg.IDPolicy, "id-policy", "hash", "Patient id policy: hash or prefix")
	f.BoolVar(&cfg.NoAI, "no-ai", false, "Disable oracle calls (rules-only mapping, no prediction)")
	_ = standardizeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(standardizeCmd)
}

func runStandardize(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()
	cfg.LoadEnv()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	policy, _ := cfg.Policy()

	ref, err := reference.Load(cfg.CPTRefPath, log)
	if err != nil {
		log.Error().Err(err).Msg("cpt reference load failed")
		os.Exit(exitcode.ValidationError)
	}

	client := newOracleClient(log)
	pipeline := &process.Pipeline{
		Mapper:    &schema.Mapper{Semantic: semanticMapper(client)},
		Predictor: &predict.Predictor{Oracle: client, Ref: ref, Log: log},
		Log:       log,
	}

	summary, _, err := pipeline.Run(ctx, process.Options{
		InputPath:   cfg.FilePath,
		OutputPath:  cfg.OutputPath,
		ParquetPath: cfg.ParquetPath,
		Year:        cfg.Year,
		IDPolicy:    policy,
		LexiconPath: cfg.LexiconPath,
	})
	if err != nil {
		var pe *process.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("standardize failed")
			switch pe.Phase {
			case "read":
				os.Exit(exitcode.ReadError)
			case "write":
				os.Exit(exitcode.WriteError)
			default:
				os.Exit(exitcode.ProcessError)
			}
		}
		log.Error().Err(err).Msg("standardize failed")
		os.Exit(exitcode.ProcessError)
	}

	fmt.Printf("Standardize complete: %d rows, %d columns mapped, %d predicted, %d passthrough (%.1fs)\n",
		summary.RowsRead, summary.ColumnsMapped, summary.Predicted, summary.Passthrough,
		summary.DurationTotal.Seconds())
	return nil
}