package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so "Café" normalizes like "Cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes vendor names before comparison: uppercase,
// diacritics folded, punctuation stripped, stop words removed, whitespace
// collapsed.
type Normalizer struct {
	stopWords map[string]struct{}
}

// NewNormalizer builds a Normalizer dropping the given stop words
// (compared case-insensitively as whole tokens).
func NewNormalizer(stopWords []string) *Normalizer {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		sw[strings.ToUpper(w)] = struct{}{}
	}
	return &Normalizer{stopWords: sw}
}

// Normalize returns the canonical form of a vendor name. The result may be
// empty when the name consists entirely of stop words.
func (n *Normalizer) Normalize(name string) string {
	return strings.Join(n.Tokens(name), " ")
}

// Tokens returns the canonical name split into tokens.
func (n *Normalizer) Tokens(name string) []string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if _, drop := n.stopWords[f]; drop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
