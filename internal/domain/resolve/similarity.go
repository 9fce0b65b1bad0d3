package resolve

import "strings"

// initialismConfidence is the similarity assigned when one name is the
// initialism of the other, e.g. "IBM" for "International Business Machines".
const initialismConfidence = 0.95

// jaroWinklerPrefix caps the common-prefix bonus length.
const jaroWinklerPrefix = 4

// Similarity scores two normalized names in [0,1]. It takes the best of
// Jaro-Winkler over the full strings and an initialism check, so acronym
// forms of the same company still clear the acceptance threshold.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	s := jaroWinkler(a, b)
	if initialismMatch(a, b) && initialismConfidence > s {
		s = initialismConfidence
	}
	return s
}

// initialismMatch reports whether one side is a single token equal to the
// initials of the other side's tokens (at least two of them).
func initialismMatch(a, b string) bool {
	return isInitialismOf(a, b) || isInitialismOf(b, a)
}

func isInitialismOf(short, long string) bool {
	if strings.ContainsRune(short, ' ') {
		return false
	}
	tokens := strings.Fields(long)
	if len(tokens) < 2 || len(short) != len(tokens) {
		return false
	}
	for i, t := range tokens {
		if t[0] != short[i] {
			return false
		}
	}
	return true
}

// jaroWinkler computes the Jaro-Winkler similarity of two strings.
func jaroWinkler(a, b string) float64 {
	j := jaro(a, b)
	if j == 0 {
		return 0
	}
	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < jaroWinklerPrefix && a[prefix] == b[prefix] {
		prefix++
	}
	return j + float64(prefix)*0.1*(1-j)
}

func jaro(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	window := max(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	matchA := make([]bool, la)
	matchB := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := max(0, i-window)
		hi := min(lb-1, i+window)
		for j := lo; j <= hi; j++ {
			if matchB[j] || a[i] != b[j] {
				continue
			}
			matchA[i] = true
			matchB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !matchA[i] {
			continue
		}
		for !matchB[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}
