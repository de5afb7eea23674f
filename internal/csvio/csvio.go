// Package csvio reads raw case-log tables and writes standardized output.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gyeh/caselog/internal/model"
)

// ReadTable parses a CSV file into a RawTable. The first row is the header.
// Short rows are padded with empty cells and long rows truncated so every
// row matches the header width.
func ReadTable(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV data from r into a RawTable.
func Read(r io.Reader) (*model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, err
	}
	width := len(header)

	table := &model.RawTable{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		case len(row) > width:
			row = row[:width]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// WriteRecords writes standardized records to path as CSV in canonical
// column order.
func WriteRecords(path string, records []model.CaseRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Write writes standardized records to w as CSV, header first.
func Write(w io.Writer, records []model.CaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.OutputColumns); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(recordRow(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(r *model.CaseRecord) []string {
	return []string{
		deref(r.ProcedureType),
		deref(r.ProcedureDate),
		deref(r.PatientID),
		deref(r.Hospital),
		deref(r.Attending),
		deref(r.CPTCode),
		deref(r.PredictedCPTCode),
		deref(r.CPTDescription),
		strconv.FormatFloat(r.Confidence, 'f', -1, 64),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
