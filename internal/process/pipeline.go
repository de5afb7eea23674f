// Package process runs the standardization pipeline: read, map columns,
// standardize, predict, write.
package process

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/csvio"
	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/parquetout"
	"github.com/gyeh/caselog/internal/predict"
	"github.com/gyeh/caselog/internal/schema"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options configures one pipeline run.
type Options struct {
	InputPath   string
	OutputPath  string // empty skips the CSV write phase
	ParquetPath string // empty skips the parquet export
	Year        int
	IDPolicy    normalize.PatientIDPolicy
	LexiconPath string // optional YAML abbreviation overrides
}

// Pipeline holds the collaborators a run needs.
type Pipeline struct {
	Mapper    *schema.Mapper
	Predictor *predict.Predictor
	Log       zerolog.Logger
}

// Run executes the full pipeline: read → map → standardize → predict →
// write. The returned records are always populated, even when no output
// path is set.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.RunSummary, []model.CaseRecord, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{InputPath: opts.InputPath, OutputPath: opts.OutputPath}

	// Phase 1: Read
	p.Log.Info().Str("file", opts.InputPath).Msg("reading input")
	table, err := csvio.ReadTable(opts.InputPath)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "read", Err: err}
	}
	summary.RowsRead = len(table.Rows)

	// Phase 2: Map columns
	mapStart := time.Now()
	p.Log.Info().Int("columns", len(table.Columns)).Msg("mapping columns")
	mapping, report := p.Mapper.MapColumns(ctx, table.Columns)
	summary.SemanticMapping = report.SemanticMapped > 0
	summary.DurationMap = time.Since(mapStart)
	if report.SemanticErr != nil {
		p.Log.Warn().Err(report.SemanticErr).Msg("semantic column mapping unavailable, using rules only")
	}
	for _, col := range report.Dropped {
		p.Log.Debug().Str("column", col).Msg("dropping unmapped column")
	}
	if len(mapping) == 0 {
		// Still a processable table: every canonical column comes out null
		// and patient ids are synthesized.
		p.Log.Warn().Msg("no source column maps to the standard schema")
	}

	// Phase 3: Standardize
	normStart := time.Now()
	p.Log.Info().Int("rows", len(table.Rows)).Msg("standardizing records")
	expander := normalize.NewExpander()
	if opts.LexiconPath != "" {
		if err := expander.LoadTableOverrides(opts.LexiconPath); err != nil {
			return nil, nil, &PipelineError{Phase: "standardize", Err: err}
		}
	}
	std := &Standardizer{
		Dates:    normalize.NewDateNormalizer(opts.Year),
		Expander: expander,
		IDPolicy: opts.IDPolicy,
	}
	res := std.Run(table, mapping)
	summary.ColumnsMapped = res.ColumnsMapped
	summary.ColumnsDropped = res.ColumnsDropped
	summary.DurationNorm = time.Since(normStart)

	// Phase 4: Predict
	predictStart := time.Now()
	p.Log.Info().Int("rows", len(res.Records)).Msg("predicting cpt codes")
	stats, err := p.Predictor.Run(ctx, res.Records)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "predict", Err: err}
	}
	summary.Passthrough = stats.Passthrough
	summary.Predicted = stats.Predicted
	summary.ShortCircuited = stats.ShortCircuited
	summary.OracleErrors = stats.OracleErrors
	summary.DurationPredict = time.Since(predictStart)

	// Phase 5: Write
	if opts.OutputPath != "" {
		p.Log.Info().Str("file", opts.OutputPath).Msg("writing output")
		if err := csvio.WriteRecords(opts.OutputPath, res.Records); err != nil {
			return nil, nil, &PipelineError{Phase: "write", Err: err}
		}
	}
	if opts.ParquetPath != "" {
		p.Log.Info().Str("file", opts.ParquetPath).Msg("writing parquet export")
		if err := parquetout.WriteRecords(opts.ParquetPath, res.Records); err != nil {
			return nil, nil, &PipelineError{Phase: "write", Err: err}
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	return summary, res.Records, nil
}
