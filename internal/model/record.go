package model

// Column describes one canonical input column of the case-log schema.
// Description is surfaced to the semantic mapper as classification context.
type Column struct {
	Name        string
	Description string
}

// InputColumns lists the canonical columns a source file can map into,
// in canonical order.
var InputColumns = []Column{
	{Name: "procedure_type", Description: "Description of the surgical procedure performed"},
	{Name: "procedure_date", Description: "Date when the procedure was performed"},
	{Name: "patient_id", Description: "Patient identifier or medical record number"},
	{Name: "hospital", Description: "Hospital or facility where the procedure was performed"},
	{Name: "attending", Description: "Attending physician or surgeon name"},
	{Name: "cpt_code", Description: "CPT code for the procedure (if already known)"},
}

// OutputColumns lists every column of the standardized table, in the fixed
// order output files use. The last three are produced by prediction.
var OutputColumns = []string{
	"procedure_type",
	"procedure_date",
	"patient_id",
	"hospital",
	"attending",
	"cpt_code",
	"predicted_cpt_code",
	"cpt_description",
	"confidence",
}

// InputColumnNames returns just the names of the canonical input columns.
func InputColumnNames() []string {
	names := make([]string, len(InputColumns))
	for i, c := range InputColumns {
		names[i] = c.Name
	}
	return names
}

// IsInputColumn reports whether name is a canonical input column.
func IsInputColumn(name string) bool {
	for _, c := range InputColumns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CaseRecord is one standardized surgical case. Nil pointers mean the source
// never supplied the field (written as an empty CSV cell, null in JSON).
type CaseRecord struct {
	ProcedureType    *string `json:"procedure_type"`
	ProcedureDate    *string `json:"procedure_date"`
	PatientID        *string `json:"patient_id"`
	Hospital         *string `json:"hospital"`
	Attending        *string `json:"attending"`
	CPTCode          *string `json:"cpt_code"`
	PredictedCPTCode *string `json:"predicted_cpt_code"`
	CPTDescription   *string `json:"cpt_description"`
	Confidence       float64 `json:"confidence"`
}

// RawTable is an unprocessed tabular file: a header row plus data rows.
// Every row has exactly len(Columns) cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named raw column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
