// Package similarity defines the text-similarity oracle the annotation
// passes depend on. The pipeline treats the function as injected and
// potentially expensive; Lexical is the self-contained default used by the
// CLI, and Memoized wraps any implementation with a cache for the repeated
// comparisons adjacent actions produce.
package similarity

import (
	"math"
	"regexp"
	"strings"
)

// Func scores how similar two texts are, in [0, 1]. Comparing against empty
// text yields 0, never an error.
type Func func(a, b string) float64

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}']+`)

// Compact stopword list; enough to keep function words from dominating the
// cosine the way the tuned thresholds expect.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "had": {}, "has": {},
	"have": {}, "he": {}, "her": {}, "his": {}, "i": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "she": {}, "that": {},
	"the": {}, "their": {}, "there": {}, "they": {}, "this": {}, "to": {},
	"was": {}, "we": {}, "were": {}, "with": {}, "you": {},
}

// Lexical is a token-frequency cosine similarity over lowercased,
// stopword-filtered word tokens.
func Lexical(a, b string) float64 {
	va := vectorize(a)
	vb := vectorize(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot, na, nb float64
	for tok, ca := range va {
		na += float64(ca * ca)
		if cb, ok := vb[tok]; ok {
			dot += float64(ca * cb)
		}
	}
	for _, cb := range vb {
		nb += float64(cb * cb)
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func vectorize(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenRE.FindAllString(strings.ToLower(text), -1) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		counts[tok]++
	}
	return counts
}

// Memoized wraps fn with an unbounded cache keyed on the argument pair.
// Intended to live for one session or one batch; not safe for concurrent
// use, matching the single-goroutine-per-session processing model.
func Memoized(fn Func) Func {
	type key struct{ a, b string }
	cache := make(map[key]float64)
	return func(a, b string) float64 {
		k := key{a, b}
		if v, ok := cache[k]; ok {
			return v
		}
		v := fn(a, b)
		cache[k] = v
		return v
	}
}
