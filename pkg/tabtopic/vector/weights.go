package vector

import (
	"regexp"
	"unicode"

	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
)

var (
	numericToken = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	timeLike     = regexp.MustCompile(`^(?:\d{1,2}:\d{2}(?::\d{2})?|\d{4}-\d{2}(?:-\d{2})?)$`)
)

// Options controls token weighting in Build.
type Options struct {
	IDF           IDF               // nil: every token weighs 1
	Stopwords     *stoplist.Manager // per-run dynamic stopwords, may be nil
	NumericWeight float64           // weight of a numeric token relative to a word
}

// Build counts tokens into a vector. Short numbers, letter/digit
// identifiers, time-like tokens and dynamic stopwords are dropped; longer
// numbers count with NumericWeight. Counts are multiplied by IDF when a model
// is supplied.
func Build(tokens []string, opts Options) Vector {
	v := make(Vector)
	for _, tok := range tokens {
		if tok == "" || opts.Stopwords.IsStop(tok) {
			continue
		}
		if timeLike.MatchString(tok) {
			continue
		}
		weight := 1.0
		switch {
		case numericToken.MatchString(tok):
			if len(tok) <= 2 {
				continue
			}
			weight = opts.NumericWeight
		case isIdentifier(tok):
			continue
		}
		v[tok] += weight
	}
	if opts.IDF != nil {
		for tok, w := range v {
			v[tok] = w * opts.IDF.Weight(tok)
		}
	}
	return v
}

// isIdentifier reports tokens mixing letters and digits, e.g. "a1b2c3".
func isIdentifier(tok string) bool {
	var letter, digit bool
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
		if letter && digit {
			return true
		}
	}
	return false
}
