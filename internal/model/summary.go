package model

import "time"

// RunSummary captures metrics from a single file standardization run.
type RunSummary struct {
	InputPath        string
	OutputPath       string
	RowsRead         int
	ColumnsMapped    int
	ColumnsDropped   int
	SemanticMapping  bool
	Passthrough      int
	Predicted        int
	ShortCircuited   int
	OracleErrors     int
	DurationMap      time.Duration
	DurationNorm     time.Duration
	DurationPredict  time.Duration
	DurationTotal    time.Duration
}
