// Package names normalizes country names so every dataset joins on the same key.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAliases maps common variants to the canonical names used by the
// Natural Earth world topology.
var DefaultAliases = map[string]string{
	"USA":                      "United States of America",
	"US":                       "United States of America",
	"United States":            "United States of America",
	"UK":                       "United Kingdom",
	"Great Britain":            "United Kingdom",
	"Czech Republic":           "Czechia",
	"Ivory Coast":              "Côte d'Ivoire",
	"DR Congo":                 "Dem. Rep. Congo",
	"Republic of the Congo":    "Congo",
	"Bosnia and Herzegovina":   "Bosnia and Herz.",
	"Central African Republic": "Central African Rep.",
	"Dominican Republic":       "Dominican Rep.",
	"South Sudan":              "S. Sudan",
	"Equatorial Guinea":        "Eq. Guinea",
	"Solomon Islands":          "Solomon Is.",
	"Eswatini":                 "eSwatini",
	"Swaziland":                "eSwatini",
	"Burma":                    "Myanmar",
	"Macedonia":                "North Macedonia",
	"Russian Federation":       "Russia",
	"Korea, South":             "South Korea",
	"Republic of Korea":        "South Korea",
	"Korea, North":             "North Korea",
	"Falkland Islands":         "Falkland Is.",
	"Western Sahara":           "W. Sahara",

	"Democratic Republic of the Congo": "Dem. Rep. Congo",
}

// Normalizer maps name variants to canonical names and join keys.
// The zero value only folds case, diacritics and "The" prefixes.
type Normalizer struct {
	aliases map[string]string
}

// New builds a normalizer from alias tables. Later tables override earlier ones.
// Alias keys are folded, so "usa", "U.S.A" and "USA" all match the same entry.
func New(tables ...map[string]string) *Normalizer {
	n := &Normalizer{aliases: make(map[string]string)}
	for _, t := range tables {
		for variant, canonical := range t {
			n.aliases[fold(variant)] = strings.TrimSpace(canonical)
		}
	}

	return n
}

// Canonical returns the display form of a country name.
func (n *Normalizer) Canonical(name string) string {
	clean := cleanup(name)
	if clean == "" {
		return ""
	}
	if n != nil {
		if c, ok := n.aliases[fold(clean)]; ok {
			return c
		}
	}

	return clean
}

// Key returns the join key of a country name. Two names that refer to the
// same country through the alias table or differ only in case, diacritics,
// punctuation or a leading "The" share one key.
func (n *Normalizer) Key(name string) string {
	return fold(n.Canonical(name))
}

// Resolver is the contract the rest of the module depends on.
type Resolver interface {
	Canonical(name string) string
	Key(name string) string
}

var _ Resolver = (*Normalizer)(nil)

func cleanup(name string) string {
	s := strings.Join(strings.Fields(name), " ")
	if len(s) > 4 && strings.EqualFold(s[:4], "the ") {
		s = s[4:]
	}

	return s
}

// fold strips diacritics and punctuation, folds case and collapses spaces.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = cases.Fold().String(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	space := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			space = true
		}
	}

	out := b.String()
	if strings.HasPrefix(out, "the ") {
		out = out[4:]
	}

	return out
}
