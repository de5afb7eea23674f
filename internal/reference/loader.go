// Package reference loads the CPT reference lexicon used for
// passthrough validation and prediction prompts.
package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/model"
)

// Lexicon is a read-only set of CPT reference entries keyed by code.
type Lexicon struct {
	entries []model.CPTReference
	byCode  map[string]model.CPTReference
}

// Empty returns a lexicon with no entries.
func Empty() *Lexicon {
	return &Lexicon{byCode: map[string]model.CPTReference{}}
}

// Load reads a reference CSV with columns code, description, category.
// A missing file is not fatal: the caller gets an empty lexicon and the
// predictor degrades to prompts without reference codes.
func Load(path string, log zerolog.Logger) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("cpt reference file not found, continuing without reference codes")
			return Empty(), nil
		}
		return nil, fmt.Errorf("open cpt reference: %w", err)
	}
	defer f.Close()

	lex, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse cpt reference %s: %w", path, err)
	}
	log.Debug().Int("entries", len(lex.entries)).Str("path", path).Msg("loaded cpt reference")
	return lex, nil
}

func parse(r io.Reader) (*Lexicon, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return Empty(), nil
		}
		return nil, err
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	codeIdx, ok := idx["code"]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", "code")
	}
	descIdx, hasDesc := idx["description"]
	catIdx, hasCat := idx["category"]

	lex := Empty()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entry := model.CPTReference{Code: strings.TrimSpace(field(row, codeIdx))}
		if entry.Code == "" {
			continue
		}
		if hasDesc {
			entry.Description = strings.TrimSpace(field(row, descIdx))
		}
		if hasCat {
			entry.Category = strings.TrimSpace(field(row, catIdx))
		}
		if _, dup := lex.byCode[entry.Code]; dup {
			continue
		}
		lex.entries = append(lex.entries, entry)
		lex.byCode[entry.Code] = entry
	}
	return lex, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Entries returns all reference entries in file order.
func (l *Lexicon) Entries() []model.CPTReference { return l.entries }

// Len reports the number of entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// Lookup returns the entry for a code, if present.
func (l *Lexicon) Lookup(code string) (model.CPTReference, bool) {
	e, ok := l.byCode[strings.TrimSpace(code)]
	return e, ok
}
