package process

import (
	"strings"

	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/schema"
)

// StandardizeResult carries the standardized rows plus counts for the
// run summary.
type StandardizeResult struct {
	Records        []model.CaseRecord
	ColumnsMapped  int
	ColumnsDropped int
}

// Standardizer reshapes a raw table into canonical case records and
// normalizes each populated column.
type Standardizer struct {
	Dates    *normalize.DateNormalizer
	Expander *normalize.Expander
	IDPolicy normalize.PatientIDPolicy
}

// Run builds one CaseRecord per raw row, in row order. Canonical columns the
// mapping never targets stay nil, except patient_id, which is synthesized
// when absent. Normalization is applied column-wise and only to columns
// that carry at least one value.
func (s *Standardizer) Run(table *model.RawTable, mapping schema.Mapping) *StandardizeResult {
	// canonical column -> raw column index
	src := map[string]int{}
	for raw, canon := range mapping {
		if i := table.ColumnIndex(raw); i >= 0 {
			src[canon] = i
		}
	}

	res := &StandardizeResult{
		Records:        make([]model.CaseRecord, len(table.Rows)),
		ColumnsMapped:  len(src),
		ColumnsDropped: len(table.Columns) - len(src),
	}

	for _, canon := range model.InputColumnNames() {
		idx, ok := src[canon]

		// Every row gets a patient id: rows with no usable cell receive a
		// fresh random token, whether the column is missing, all-empty, or
		// only partially populated.
		if canon == "patient_id" {
			for i, row := range table.Rows {
				cell := ""
				if ok {
					cell = strings.TrimSpace(row[idx])
				}
				if cell == "" {
					res.Records[i].PatientID = strptr(normalize.RandomPatientID())
				} else {
					res.Records[i].PatientID = strptr(normalize.NormalizePatientID(cell, s.IDPolicy))
				}
			}
			continue
		}

		if !ok || columnEmpty(table, idx) {
			continue
		}
		for i, row := range table.Rows {
			cell := strings.TrimSpace(row[idx])
			if cell == "" {
				continue
			}
			s.setField(&res.Records[i], canon, cell)
		}
	}
	return res
}

func (s *Standardizer) setField(r *model.CaseRecord, canon, cell string) {
	switch canon {
	case "procedure_type":
		r.ProcedureType = strptr(s.Expander.ExpandProcedure(cell))
	case "procedure_date":
		r.ProcedureDate = strptr(s.Dates.Normalize(cell))
	case "hospital":
		r.Hospital = strptr(s.Expander.ExpandHospital(cell))
	case "attending":
		r.Attending = strptr(s.Expander.ExpandAttending(cell))
	case "cpt_code":
		r.CPTCode = strptr(cell)
	}
}

func columnEmpty(table *model.RawTable, idx int) bool {
	for _, row := range table.Rows {
		if strings.TrimSpace(row[idx]) != "" {
			return false
		}
	}
	return true
}

func strptr(s string) *string { return &s }
