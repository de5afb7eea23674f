package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/oracle"
)

// Completer is the subset of the oracle client the semantic mapper needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Enabled() bool
}

// SemanticMapper classifies column names with the external oracle.
type SemanticMapper struct {
	Oracle Completer
}

// Worked examples of real-world header variations, included in the prompt.
const headerExamples = `Examples of common variations:
- "Procedure", "Surgery", "Operation", "Case Description", "SurgDesc", "Op" -> "procedure_type"
- "Date", "Surgery Date", "DOS", "Case Date", "DtProc", "Dt" -> "procedure_date"
- "Patient", "MRN", "Pt ID", "Patient MRN", "PatientNumber", "PatID" -> "patient_id"
- "Facility", "Location", "Site", "Hospital", "LocOfService", "Hosp" -> "hospital"
- "Surgeon", "Provider", "Attending Surgeon", "Attending", "SurgAttnd", "Phys" -> "attending"
- "CPT", "Code", "CPT Codes", "Billing Code" -> "cpt_code"`

const mapperSystemPrompt = "You are an expert data scientist specializing in healthcare data standardization."

// ClassifyColumns asks the oracle to map every raw column name to a
// canonical column or null. Unknown canonical names and null map to "".
func (s *SemanticMapper) ClassifyColumns(ctx context.Context, raw []string) (map[string]string, error) {
	if s.Oracle == nil || !s.Oracle.Enabled() {
		return nil, fmt.Errorf("semantic mapping unavailable: oracle not configured")
	}

	var desc strings.Builder
	for _, c := range model.InputColumns {
		fmt.Fprintf(&desc, "- %s: %s\n", c.Name, c.Description)
	}

	prompt := fmt.Sprintf(`I have a CSV file with surgical case data that I need to standardize. The original columns are:
%s

I need to map these columns to my standardized format with these columns:
%s
%s

Map each original column to the most appropriate standardized column based on what the column likely contains.
If a column does not match any standardized column, map it to null.
Return a JSON object where keys are the original column names and values are the standardized column names or null.`,
		strings.Join(raw, ", "), desc.String(), headerExamples)

	text, err := s.Oracle.Complete(ctx, mapperSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("classify columns: %w", err)
	}

	var parsed map[string]*string
	if err := json.Unmarshal([]byte(oracle.StripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("parse column mapping response: %w", err)
	}

	out := make(map[string]string, len(parsed))
	for col, target := range parsed {
		if target == nil || *target == "" || strings.EqualFold(*target, "null") {
			continue
		}
		out[col] = *target
	}
	return out, nil
}
