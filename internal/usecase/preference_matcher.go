package usecase

import (
	"strings"
	"unicode"

	"github.com/tastelens/backend/internal/logging"
	"golang.org/x/text/unicode/norm"
)

// MatchMethod records how a preference was resolved to a bucket
type MatchMethod string

const (
	MatchNone      MatchMethod = "none"
	MatchExact     MatchMethod = "exact"
	MatchSubstring MatchMethod = "substring"
)

// PreferenceMatcher resolves free-text dietary preferences to cuisine buckets
// and buckets to restaurant alias columns
type PreferenceMatcher struct {
	aliasPrefix        string
	enableDebugLogging bool
}

// NewPreferenceMatcher creates a matcher for alias columns carrying the given prefix
func NewPreferenceMatcher(aliasPrefix string, enableDebugLogging bool) *PreferenceMatcher {
	if aliasPrefix == "" {
		aliasPrefix = "alias_"
	}
	return &PreferenceMatcher{
		aliasPrefix:        aliasPrefix,
		enableDebugLogging: enableDebugLogging,
	}
}

// Normalize trims, lowercases, folds diacritics to ASCII and removes spaces.
// "  México " and "mexico" both normalize to "mexico".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = norm.NFKD.String(s)
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r == ' ' {
			return -1
		}
		return r
	}, s)
}

// MatchBucket resolves a preference to a bucket. The enumerated preference
// table is consulted first; otherwise the first bucket whose normalized key
// contains the preference, or is contained in it, wins. A blank preference
// is contained in every key and so resolves to the first bucket.
func (m *PreferenceMatcher) MatchBucket(preference string) (Bucket, MatchMethod) {
	pref := Normalize(preference)

	if name, ok := preferenceBuckets[pref]; ok {
		if b, ok := bucketByName(name); ok {
			m.debugf("preference %q -> bucket %s (exact)", preference, b.Name)
			return b, MatchExact
		}
	}

	for _, b := range buckets {
		for _, key := range b.Keys {
			k := Normalize(key)
			if strings.Contains(pref, k) || strings.Contains(k, pref) {
				m.debugf("preference %q -> bucket %s (substring of %q)", preference, b.Name, key)
				return b, MatchSubstring
			}
		}
	}

	m.debugf("preference %q matched no bucket", preference)
	return Bucket{}, MatchNone
}

// ResolveColumns returns the alias columns whose normalized tag equals one of
// the bucket's normalized tags, in tag order then column order
func (m *PreferenceMatcher) ResolveColumns(bucket Bucket, aliasColumns []string) []string {
	var cols []string
	for _, tag := range bucket.Tags {
		tagNorm := Normalize(tag)
		for _, col := range aliasColumns {
			if tagNorm == Normalize(strings.TrimPrefix(col, m.aliasPrefix)) {
				cols = append(cols, col)
			}
		}
	}
	return cols
}

func (m *PreferenceMatcher) debugf(format string, args ...interface{}) {
	if m.enableDebugLogging {
		logging.Debug().Str("component", "matcher").Msgf(format, args...)
	}
}
