package marketshare

import (
	"strconv"
	"strings"
)

// DefaultSentinels are the raw brand values that count as "no brand
// reported" after trimming and uppercasing. Survey sheets use NILL (in
// assorted spellings), zeros and dashes interchangeably for empty slots.
var DefaultSentinels = []string{"", "0", "NILL", "NIL", "NA", "N/A", "NULL", "-"}

// Normalizer canonicalizes raw brand labels. The zero value is not usable;
// construct with NewNormalizer.
type Normalizer struct {
	sentinels map[string]struct{}
}

// NewNormalizer builds a normalizer with the given sentinel tokens. Tokens
// are compared after trimming and uppercasing. With no arguments the
// DefaultSentinels set is used.
func NewNormalizer(sentinels ...string) *Normalizer {
	if len(sentinels) == 0 {
		sentinels = DefaultSentinels
	}
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return &Normalizer{sentinels: set}
}

// Normalize canonicalizes a raw brand cell. It returns the uppercased,
// trimmed label and true for a present brand, or ("", false) when the cell
// is blank or a sentinel. It never fails.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if _, absent := n.sentinels[label]; absent {
		return "", false
	}
	return label, true
}

// NormalizeBrand applies the default sentinel set. Convenience for callers
// that do not carry a Normalizer.
func NormalizeBrand(raw string) (string, bool) {
	return defaultNormalizer.Normalize(raw)
}

var defaultNormalizer = NewNormalizer()

// ParseNumeric parses a workload or yearly-total cell. Surrounding
// whitespace and thousands separators are stripped before parsing. The
// second return value is false when the cell was non-blank but not a
// number; blank cells coerce silently to zero.
func ParseNumeric(cell string) (float64, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, true
	}
	cleaned := strings.ReplaceAll(trimmed, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CoerceNumeric is the total form of ParseNumeric: any absent or
// non-numeric input yields 0.0. Documented fallback behavior, not an
// exception path.
func CoerceNumeric(cell string) float64 {
	v, _ := ParseNumeric(cell)
	return v
}
