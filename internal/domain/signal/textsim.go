package signal

import (
	"math"
	"strings"
	"unicode"
)

// abstractSimilarity is a token-frequency cosine similarity over two free
// texts, in [0,1]. It is intentionally simple: abstracts are short and the
// score only gates one component of the patent signal.
func abstractSimilarity(a, b string) float64 {
	va := termFrequencies(a)
	vb := termFrequencies(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot, na, nb float64
	for term, fa := range va {
		na += fa * fa
		if fb, ok := vb[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range vb {
		nb += fb * fb
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func termFrequencies(text string) map[string]float64 {
	freq := make(map[string]float64)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		// single characters are noise
		if len(tok) < 2 {
			continue
		}
		freq[tok]++
	}
	return freq
}
