package shipping

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// PatternKind tags the variant held by a LocationPattern.
type PatternKind int

const (
	UnknownPattern PatternKind = iota
	CountryMatch
	CountryStateMatch
	PostalPrefixMatch
)

// LocationPattern is one inclusion or exclusion rule of a zone. Text forms:
//
//	US      any address in the country
//	US:CA   country and state must both match
//	941*    postal code starts with the prefix
type LocationPattern struct {
	kind    PatternKind
	country string
	state   string
	prefix  string
}

// ParsePattern validates and decodes the text form. Anything other than the
// three documented shapes is rejected.
func ParsePattern(text string) (LocationPattern, error) {
	s := strings.TrimSpace(text)
	invalid := func(reason string) error {
		return errs.NewValueIsInvalidErrorWithCause("location pattern", fmt.Errorf("%q: %s", text, reason))
	}

	switch {
	case strings.Contains(s, "*"):
		prefix, ok := strings.CutSuffix(s, "*")
		if !ok || prefix == "" || strings.ContainsAny(prefix, "*:") {
			return LocationPattern{}, invalid("postal prefix must be non-empty and end with a single *")
		}
		return LocationPattern{kind: PostalPrefixMatch, prefix: normalizePostal(prefix)}, nil
	case strings.Contains(s, ":"):
		country, state, _ := strings.Cut(s, ":")
		if !isCountryCode(country) {
			return LocationPattern{}, invalid("country must be a 2-letter code")
		}
		state = strings.TrimSpace(state)
		if state == "" || strings.Contains(state, ":") {
			return LocationPattern{}, invalid("state is required after ':'")
		}
		return LocationPattern{kind: CountryStateMatch, country: strings.ToUpper(country), state: strings.ToUpper(state)}, nil
	case isCountryCode(s):
		return LocationPattern{kind: CountryMatch, country: strings.ToUpper(s)}, nil
	default:
		return LocationPattern{}, invalid("expected CC, CC:STATE or PREFIX*")
	}
}

// ParsePatterns parses every entry, reporting the first failure.
func ParsePatterns(texts []string) ([]LocationPattern, error) {
	out := make([]LocationPattern, 0, len(texts))
	for _, t := range texts {
		p, err := ParsePattern(t)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (p LocationPattern) Kind() PatternKind {
	return p.kind
}

// Matches reports whether addr satisfies the pattern. Country and state
// comparisons ignore case.
func (p LocationPattern) Matches(addr kernel.Address) bool {
	switch p.kind {
	case CountryMatch:
		return strings.EqualFold(addr.Country(), p.country)
	case CountryStateMatch:
		return strings.EqualFold(addr.Country(), p.country) && strings.EqualFold(addr.State(), p.state)
	case PostalPrefixMatch:
		postal := normalizePostal(addr.PostalCode())
		return postal != "" && strings.HasPrefix(postal, p.prefix)
	default:
		return false
	}
}

// String returns the storage encoding accepted by ParsePattern.
func (p LocationPattern) String() string {
	switch p.kind {
	case CountryMatch:
		return p.country
	case CountryStateMatch:
		return p.country + ":" + p.state
	case PostalPrefixMatch:
		return p.prefix + "*"
	default:
		return ""
	}
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func normalizePostal(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func patternStrings(ps []LocationPattern) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.String())
	}
	return out
}
