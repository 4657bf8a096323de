package identity

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"the": {}, "of": {}, "at": {}, "in": {}, "and": {}, "&": {},
}

// AliasRegistry maps a normalized full institution name to its known
// abbreviations. Expansion is bidirectional: an abbreviation on input yields
// the full name, and vice versa.
type AliasRegistry map[string][]string

// Normalizer canonicalizes institution names and generates matching variants.
// It is a pure function over an immutable alias table.
type Normalizer struct {
	aliases AliasRegistry
}

// NewNormalizer builds a normalizer over the given registry. A nil registry
// falls back to the default table.
func NewNormalizer(aliases AliasRegistry) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

// Normalize lowercases, strips punctuation, and collapses whitespace.
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// Variants returns the matching set for a name: the canonical form, the
// stop-word-stripped form, an initials acronym, alias expansions, and campus
// expansions for multi-campus systems. The slice may contain duplicates.
func (n *Normalizer) Variants(name string) []string {
	canonical := n.Normalize(name)
	variants := []string{name, canonical}

	if stripped := stripStopWords(canonical); stripped != canonical {
		variants = append(variants, stripped)
	}

	if acronym := buildAcronym(canonical); len(acronym) >= 2 {
		variants = append(variants, acronym, strings.ToUpper(acronym))
	}

	variants = append(variants, n.aliasExpansions(canonical)...)
	variants = append(variants, n.campusExpansions(canonical)...)

	return variants
}

func (n *Normalizer) aliasExpansions(canonical string) []string {
	var out []string

	for full, abbrevs := range n.aliases {
		if canonical == full {
			out = append(out, abbrevs...)
			continue
		}
		for _, abbrev := range abbrevs {
			if canonical == abbrev {
				out = append(out, full)
				out = append(out, abbrevs...)
				break
			}
		}
	}

	return out
}

// campusExpansions handles "University of X <campus>" systems where the
// input only partially names the campus, e.g. "uc berkeley" or plain
// "berkeley" matching "university of california berkeley".
func (n *Normalizer) campusExpansions(canonical string) []string {
	var out []string

	for full, abbrevs := range n.aliases {
		if !strings.HasPrefix(full, "university of ") {
			continue
		}

		words := strings.Fields(strings.TrimPrefix(full, "university of "))
		if len(words) < 2 {
			continue
		}
		campus := strings.Join(words[1:], " ")

		matches := canonical == campus ||
			(strings.Contains(canonical, campus) &&
				(strings.Contains(canonical, "university of "+words[0]) ||
					strings.Contains(canonical, "u"+words[0][:1]+" ")))
		if matches && canonical != full {
			out = append(out, full)
			out = append(out, abbrevs...)
		}
	}

	return out
}

func stripStopWords(canonical string) string {
	words := strings.Fields(canonical)
	kept := words[:0]
	for _, w := range words {
		if _, ok := stopWords[w]; !ok {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// buildAcronym takes the initials of words longer than two characters.
func buildAcronym(canonical string) string {
	var b strings.Builder
	for _, w := range strings.Fields(canonical) {
		if len(w) > 2 {
			b.WriteByte(w[0])
		}
	}
	return b.String()
}
