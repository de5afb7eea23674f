package normalize

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// PatientIDPolicy selects how raw patient identifiers are canonicalized.
// Callers pick a policy explicitly; it is never inferred from the data.
type PatientIDPolicy string

const (
	// PolicyHash derives a stable pseudonymous token from a SHA-256 of the
	// raw value, so the same identifier always yields the same token.
	PolicyHash PatientIDPolicy = "hash"
	// PolicyPrefix keeps the identifier readable: strips non-alphanumerics
	// and ensures a PT prefix.
	PolicyPrefix PatientIDPolicy = "prefix"
)

// ParsePatientIDPolicy validates a policy name from config or flags.
func ParsePatientIDPolicy(s string) (PatientIDPolicy, error) {
	switch PatientIDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyHash:
		return PolicyHash, nil
	case PolicyPrefix:
		return PolicyPrefix, nil
	}
	return "", fmt.Errorf("unknown patient id policy %q (want hash or prefix)", s)
}

var (
	patientToken    = regexp.MustCompile(`^(?i:PT|RHC)[A-Za-z0-9]+$`)
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ValidPatientToken reports whether s is a well-formed pseudonymous token.
func ValidPatientToken(s string) bool {
	return patientToken.MatchString(s)
}

// NormalizePatientID canonicalizes a raw identifier under the given policy.
func NormalizePatientID(raw string, policy PatientIDPolicy) string {
	if policy == PolicyPrefix {
		return PrefixPatientID(raw)
	}
	return HashPatientID(raw)
}

// HashPatientID returns PT followed by the first 8 hex characters of a
// SHA-256 of the raw value's string form. Deterministic across runs.
func HashPatientID(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return fmt.Sprintf("PT%x", sum)[:10]
}

// PrefixPatientID strips non-alphanumeric characters and adds a PT prefix
// unless the value already starts with PT or RHC (case-insensitive).
func PrefixPatientID(raw string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.TrimSpace(raw), "")
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "PT") || strings.HasPrefix(upper, "RHC") {
		return s
	}
	return "PT" + s
}

// RandomPatientID generates a fresh PT token for rows with no identifier at
// all. Uniqueness rides on the randomness; collisions are not checked.
func RandomPatientID() string {
	return "PT" + uuid.New().String()[:8]
}
