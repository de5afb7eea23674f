// Package parquetout exports standardized case records as Parquet for
// downstream analytical tooling.
package parquetout

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/gyeh/caselog/internal/model"
)

// caseRow mirrors model.CaseRecord with plain columns. Optional fields
// become empty strings so the schema stays flat.
type caseRow struct {
	ProcedureType    string  `parquet:"procedure_type,dict"`
	ProcedureDate    string  `parquet:"procedure_date,dict"`
	PatientID        string  `parquet:"patient_id"`
	Hospital         string  `parquet:"hospital,dict"`
	Attending        string  `parquet:"attending,dict"`
	CPTCode          string  `parquet:"cpt_code,dict"`
	PredictedCPTCode string  `parquet:"predicted_cpt_code,dict"`
	CPTDescription   string  `parquet:"cpt_description"`
	Confidence       float64 `parquet:"confidence"`
}

// WriteRecords writes all records to a Parquet file at path.
func WriteRecords(path string, records []model.CaseRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[caseRow](f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("caselog", "1.0", ""),
	)

	rows := make([]caseRow, len(records))
	for i := range records {
		rows[i] = toRow(&records[i])
	}
	if _, err := w.Write(rows); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func toRow(r *model.CaseRecord) caseRow {
	return caseRow{
		ProcedureType:    deref(r.ProcedureType),
		ProcedureDate:    deref(r.ProcedureDate),
		PatientID:        deref(r.PatientID),
		Hospital:         deref(r.Hospital),
		Attending:        deref(r.Attending),
		CPTCode:          deref(r.CPTCode),
		PredictedCPTCode: deref(r.PredictedCPTCode),
		CPTDescription:   deref(r.CPTDescription),
		Confidence:       r.Confidence,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
