// Package schema maps arbitrary source column names onto the canonical
// case-log schema. Curated synonym rules run first; a semantic classifier
// can fill in what the rules miss.
package schema

import (
	"context"
	"regexp"
	"strings"

	"github.com/gyeh/caselog/internal/model"
)

// Mapping relates raw source column names to canonical column names. Raw
// columns absent from the mapping are dropped.
type Mapping map[string]string

// Report describes how a Mapping was produced, so callers can tell
// "semantic fallback failed, rules only" apart from "rules were enough".
type Report struct {
	RuleMapped     int
	SemanticMapped int
	Dropped        []string
	SemanticErr    error
}

// Classifier is the semantic fallback: given every raw column name, it
// proposes canonical targets ("" meaning no match). Implementations may
// call an external service and fail.
type Classifier interface {
	ClassifyColumns(ctx context.Context, raw []string) (map[string]string, error)
}

// Mapper resolves column mappings. A nil Classifier disables the fallback.
type Mapper struct {
	Semantic Classifier
}

// synonyms is the curated rule table: normalized source name → canonical
// column. Keys use the space form; lookups try underscore and space
// variants of the input.
var synonyms = map[string]string{
	// procedure_type
	"procedure":             "procedure_type",
	"procedure name":        "procedure_type",
	"procedure type":        "procedure_type",
	"description":           "procedure_type",
	"case description":      "procedure_type",
	"operation":             "procedure_type",
	"operation description": "procedure_type",
	"surgery":               "procedure_type",
	"surgdesc":              "procedure_type",
	"op":                    "procedure_type",

	// procedure_date
	"date":           "procedure_date",
	"procedure date": "procedure_date",
	"case date":      "procedure_date",
	"surgery date":   "procedure_date",
	"dos":            "procedure_date",
	"dtproc":         "procedure_date",
	"dt":             "procedure_date",

	// patient_id
	"patient":       "patient_id",
	"patient id":    "patient_id",
	"pt id":         "patient_id",
	"mrn":           "patient_id",
	"patient mrn":   "patient_id",
	"patientnumber": "patient_id",
	"patid":         "patient_id",

	// hospital
	"hospital":     "hospital",
	"facility":     "hospital",
	"location":     "hospital",
	"site":         "hospital",
	"locofservice": "hospital",
	"hosp":         "hospital",

	// attending
	"attending":           "attending",
	"attending physician": "attending",
	"attending surgeon":   "attending",
	"surgeon":             "attending",
	"provider":            "attending",
	"operating surgeon":   "attending",
	"surgattnd":           "attending",
	"phys":                "attending",

	// cpt_code
	"cpt":          "cpt_code",
	"cpt code":     "cpt_code",
	"cpt codes":    "cpt_code",
	"code":         "cpt_code",
	"billing code": "cpt_code",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeName lowercases, trims, and collapses whitespace runs.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRun.ReplaceAllString(s, " ")
}

// lookupRule tries the normalized name, then its underscore form, then its
// space form, in that order, so the underscore variant wins when the two
// would disagree.
func lookupRule(raw string) (string, bool) {
	name := normalizeName(raw)
	if target, ok := synonyms[name]; ok {
		return target, true
	}
	if target, ok := synonyms[strings.ReplaceAll(name, " ", "_")]; ok {
		return target, true
	}
	if target, ok := synonyms[strings.ReplaceAll(name, "_", " ")]; ok {
		return target, true
	}
	return "", false
}

// MapColumns builds a Mapping for the given raw header, in stable input
// order. When two raw columns resolve to the same canonical column, the
// first one keeps it and later ones are dropped. Semantic classification,
// when configured, runs once for the full header and only fills columns the
// rules left unmapped; its failure is recorded in the Report and never
// propagated.
func (m *Mapper) MapColumns(ctx context.Context, raw []string) (Mapping, *Report) {
	mapping := make(Mapping, len(raw))
	report := &Report{}
	taken := make(map[string]bool, len(model.InputColumns))

	var unmapped []string
	for _, col := range raw {
		target, ok := lookupRule(col)
		if !ok {
			unmapped = append(unmapped, col)
			continue
		}
		if taken[target] {
			report.Dropped = append(report.Dropped, col)
			continue
		}
		mapping[col] = target
		taken[target] = true
		report.RuleMapped++
	}

	if len(unmapped) > 0 && m.Semantic != nil {
		proposed, err := m.Semantic.ClassifyColumns(ctx, raw)
		if err != nil {
			report.SemanticErr = err
		}
		for _, col := range unmapped {
			target := proposed[col]
			if target == "" || !model.IsInputColumn(target) || taken[target] {
				report.Dropped = append(report.Dropped, col)
				continue
			}
			mapping[col] = target
			taken[target] = true
			report.SemanticMapped++
		}
	} else {
		report.Dropped = append(report.Dropped, unmapped...)
	}

	return mapping, report
}
