package process

import (
	"strings"
	"testing"

	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/schema"
)

func newStandardizer() *Standardizer {
	return &Standardizer{
		Dates:    normalize.NewDateNormalizer(2023),
		Expander: normalize.NewExpander(),
		IDPolicy: normalize.PolicyHash,
	}
}

func TestStandardizeMapsAndNormalizes(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure", "Date", "MRN", "Facility", "Surgeon", "notes"},
		Rows: [][]string{
			{"LAP CHOLE", "5/12/23", "12345", "SJH", "SMITH.JOHN", "routine"},
			{"TKA", "May 30", "67890", "mgh", "dr. jones", "second"},
		},
	}
	mapping := schema.Mapping{
		"Procedure": "procedure_type",
		"Date":      "procedure_date",
		"MRN":       "patient_id",
		"Facility":  "hospital",
		"Surgeon":   "attending",
	}

	res := newStandardizer().Run(table, mapping)
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if res.ColumnsMapped != 5 || res.ColumnsDropped != 1 {
		t.Errorf("mapped/dropped = %d/%d, want 5/1", res.ColumnsMapped, res.ColumnsDropped)
	}

	r := res.Records[0]
	if got := deref(r.ProcedureType); got != "Laparoscopic cholecystectomy" {
		t.Errorf("ProcedureType = %q", got)
	}
	if got := deref(r.ProcedureDate); got != "2023-05-12" {
		t.Errorf("ProcedureDate = %q", got)
	}
	if got := deref(r.PatientID); !strings.HasPrefix(got, "PT") || len(got) != 10 {
		t.Errorf("PatientID = %q, want hashed PTxxxxxxxx", got)
	}
	if got := deref(r.Attending); got != "Dr. Smith" {
		t.Errorf("Attending = %q", got)
	}

	r2 := res.Records[1]
	if got := deref(r2.ProcedureDate); got != "2023-05-30" {
		t.Errorf("ProcedureDate = %q", got)
	}
}

func TestStandardizeMissingPatientColumnSynthesizes(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure"},
		Rows:    [][]string{{"Appendectomy"}, {"Appendectomy"}},
	}
	mapping := schema.Mapping{"Procedure": "procedure_type"}

	res := newStandardizer().Run(table, mapping)
	seen := map[string]bool{}
	for i, r := range res.Records {
		id := deref(r.PatientID)
		if !strings.HasPrefix(id, "PT") || len(id) != 10 {
			t.Errorf("row %d PatientID = %q", i, id)
		}
		if seen[id] {
			t.Errorf("row %d synthesized duplicate id %q", i, id)
		}
		seen[id] = true
	}
}

func TestStandardizeAllEmptyPatientColumnSynthesizes(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure", "MRN"},
		Rows:    [][]string{{"TKA", ""}, {"THA", "  "}},
	}
	mapping := schema.Mapping{"Procedure": "procedure_type", "MRN": "patient_id"}

	res := newStandardizer().Run(table, mapping)
	for i, r := range res.Records {
		id := deref(r.PatientID)
		if !strings.HasPrefix(id, "PT") || len(id) != 10 {
			t.Errorf("row %d PatientID = %q, want synthesized PT token", i, id)
		}
	}
}

func TestStandardizePartialPatientColumn(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure", "MRN"},
		Rows:    [][]string{{"TKA", "12345"}, {"THA", ""}},
	}
	mapping := schema.Mapping{"Procedure": "procedure_type", "MRN": "patient_id"}

	res := newStandardizer().Run(table, mapping)
	want := normalize.HashPatientID("12345")
	if got := deref(res.Records[0].PatientID); got != want {
		t.Errorf("row 0 PatientID = %q, want hash %q", got, want)
	}
	id := deref(res.Records[1].PatientID)
	if !strings.HasPrefix(id, "PT") || len(id) != 10 {
		t.Errorf("row 1 PatientID = %q, want synthesized PT token", id)
	}
	if id == want {
		t.Error("empty cell must not reuse another row's token")
	}
}

func TestStandardizeEmptyColumnSkipsNormalization(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure", "Date"},
		Rows:    [][]string{{"TKA", ""}, {"THA", "  "}},
	}
	mapping := schema.Mapping{"Procedure": "procedure_type", "Date": "procedure_date"}

	res := newStandardizer().Run(table, mapping)
	for i, r := range res.Records {
		if r.ProcedureDate != nil {
			t.Errorf("row %d ProcedureDate = %q, want nil for an all-empty column", i, *r.ProcedureDate)
		}
	}
}

func TestStandardizeEmptyCellStaysNil(t *testing.T) {
	table := &model.RawTable{
		Columns: []string{"Procedure", "Hosp"},
		Rows:    [][]string{{"TKA", "SJH"}, {"THA", ""}},
	}
	mapping := schema.Mapping{"Procedure": "procedure_type", "Hosp": "hospital"}

	res := newStandardizer().Run(table, mapping)
	if res.Records[0].Hospital == nil {
		t.Fatal("row 0 Hospital should be set")
	}
	if res.Records[1].Hospital != nil {
		t.Errorf("row 1 Hospital = %q, want nil", *res.Records[1].Hospital)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
