package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// lexiconEntry is one (abbreviation, expansion) rule.
type lexiconEntry struct {
	key       string
	expansion string
}

// Lexicon is an ordered abbreviation table for one domain. Entries are kept
// sorted longest-key-first so that a key which is a strict substring of
// another (TKA vs "TKA - LT") can never clobber the longer match.
type Lexicon struct {
	entries  []lexiconEntry
	foldCase bool
}

// NewLexicon builds a lexicon from a plain rule table. foldCase selects
// case-insensitive matching (hospital names) versus exact-case matching
// (procedure abbreviations).
func NewLexicon(table map[string]string, foldCase bool) *Lexicon {
	l := &Lexicon{foldCase: foldCase}
	for k, v := range table {
		l.entries = append(l.entries, lexiconEntry{key: k, expansion: v})
	}
	sort.Slice(l.entries, func(i, j int) bool {
		if len(l.entries[i].key) != len(l.entries[j].key) {
			return len(l.entries[i].key) > len(l.entries[j].key)
		}
		return l.entries[i].key < l.entries[j].key
	})
	return l
}

// Merge overlays additional rules onto the lexicon, replacing rules whose
// key already exists.
func (l *Lexicon) Merge(table map[string]string) *Lexicon {
	merged := make(map[string]string, len(l.entries)+len(table))
	for _, e := range l.entries {
		merged[e.key] = e.expansion
	}
	for k, v := range table {
		merged[k] = v
	}
	return NewLexicon(merged, l.foldCase)
}

// Expand returns the expansion for s. An exact whole-value match wins
// outright; otherwise the first (longest-key) substring match is replaced
// once and the result returned. ok is false when nothing matched.
func (l *Lexicon) Expand(s string) (string, bool) {
	needle := s
	if l.foldCase {
		needle = strings.ToUpper(s)
	}
	for _, e := range l.entries {
		key := e.key
		if l.foldCase {
			key = strings.ToUpper(key)
		}
		if needle == key {
			return e.expansion, true
		}
	}
	for _, e := range l.entries {
		key := e.key
		if l.foldCase {
			key = strings.ToUpper(key)
		}
		if idx := strings.Index(needle, key); idx >= 0 {
			// Replace in the original string at the matched position so a
			// case-folded match still splices correctly.
			return s[:idx] + e.expansion + s[idx+len(key):], true
		}
	}
	return s, false
}

// Expander applies the domain-specific standardization rules for free-text
// case-log fields. All methods are total: worst case they return the input
// re-cased.
type Expander struct {
	Procedures *Lexicon
	Hospitals  *Lexicon
}

// NewExpander returns an expander over the built-in rule tables.
func NewExpander() *Expander {
	return &Expander{
		Procedures: NewLexicon(defaultProcedures, false),
		Hospitals:  NewLexicon(defaultHospitals, true),
	}
}

// ExpandProcedure standardizes a procedure description. Matching is
// case-sensitive: surgical abbreviations are conventionally upper-case and
// folding them would mangle prose descriptions.
func (e *Expander) ExpandProcedure(s string) string {
	out, _ := e.Procedures.Expand(strings.TrimSpace(s))
	return out
}

// ExpandHospital standardizes a facility name: case-insensitive expansion,
// then adjacent duplicate words collapse, then title case. The dedup step is
// a heuristic and will also collapse legitimately repeated words.
func (e *Expander) ExpandHospital(s string) string {
	out, _ := e.Hospitals.Expand(strings.TrimSpace(s))
	return titleCase(dedupAdjacentWords(out))
}

var (
	surnameInitial = regexp.MustCompile(`^[A-Z]+\.[A-Z]$`)
	drPrefix       = regexp.MustCompile(`^(?i:dr\.)`)
)

// ExpandAttending standardizes a physician name. Recognizes LASTNAME.I and
// Lastname.Firstname shapes, extracting the surname; values already carrying
// a Dr. prefix are re-cased, not re-prefixed.
func (e *Expander) ExpandAttending(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if surnameInitial.MatchString(s) {
		last, _, _ := strings.Cut(s, ".")
		return "Dr. " + titleCase(strings.ToLower(last))
	}
	if drPrefix.MatchString(s) {
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	if parts := strings.Split(s, "."); len(parts) == 2 {
		return "Dr. " + titleCase(strings.ToLower(parts[0]))
	}
	return "Dr. " + titleCase(s)
}

// dedupAdjacentWords removes immediately repeated words, comparing
// case-insensitively and keeping the first occurrence.
func dedupAdjacentWords(s string) string {
	words := strings.Fields(s)
	out := words[:0]
	for i, w := range words {
		if i > 0 && strings.EqualFold(w, words[i-1]) {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// titleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
