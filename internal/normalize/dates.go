package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date formats found in surgical case logs, tried in order. Month-first
// forms come before year-first forms so ambiguous numeric dates resolve
// the way US case logs write them.
var dateFormats = []string{
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"1.2.2006",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

var (
	bareMonthDay    = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})$`)
	bareTextualDate = regexp.MustCompile(`^[A-Za-z]{3,9}\s+\d{1,2}$`)
	twoDigitYear    = regexp.MustCompile(`^\d{1,2}([/\-.])\d{1,2}([/\-.])\d{2}$`)
)

// DefaultYear is assumed for dates that carry no year of their own.
const DefaultYear = 2023

// DateNormalizer converts arbitrary date-like strings to ISO YYYY-MM-DD.
// It never fails: unparseable input resolves to January 1 of Year.
type DateNormalizer struct {
	// Year is appended to year-less dates and substituted for implausible
	// parsed years. Zero means DefaultYear.
	Year int

	// now is swappable for tests; nil means time.Now.
	now func() time.Time
}

// NewDateNormalizer returns a normalizer with the given default year
// (DefaultYear when year is 0).
func NewDateNormalizer(year int) *DateNormalizer {
	if year == 0 {
		year = DefaultYear
	}
	return &DateNormalizer{Year: year}
}

// Normalize returns the ISO form of raw, or the default date when raw cannot
// be repaired into anything parseable.
func (n *DateNormalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	repaired := n.repair(s)

	for _, layout := range dateFormats {
		t, err := time.Parse(layout, repaired)
		if err != nil {
			continue
		}
		// A year past the current calendar year is a mis-parsed two-digit
		// year; keep month and day, force the default year.
		if t.Year() > n.currentYear() {
			t = time.Date(n.Year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("%04d-01-01", n.Year)
}

// repair applies heuristic fixes for the year-less and two-digit-year shapes
// that defeat plain format parsing, in a fixed order.
func (n *DateNormalizer) repair(s string) string {
	if m := bareMonthDay.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s/%s/%d", m[1], m[2], n.Year)
	}
	if bareTextualDate.MatchString(s) {
		return fmt.Sprintf("%s, %d", s, n.Year)
	}
	if m := twoDigitYear.FindStringSubmatch(s); m != nil {
		sep := m[1]
		parts := strings.FieldsFunc(s, func(r rune) bool {
			return r == '/' || r == '-' || r == '.'
		})
		if len(parts) == 3 && len(parts[2]) == 2 {
			century := "19"
			if parts[2] < "50" {
				century = "20"
			}
			return parts[0] + sep + parts[1] + sep + century + parts[2]
		}
	}
	return s
}

func (n *DateNormalizer) currentYear() int {
	if n.now != nil {
		return n.now().Year()
	}
	return time.Now().Year()
}
