package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
)

// Tokenizer turns raw text into a filtered, stemmed token stream.
// It holds no per-call state and is safe for concurrent use.
type Tokenizer struct {
	stopwords map[string]struct{}
}

var tokenSeparator, asciiTokens = compileTokenSeparator()

// compileTokenSeparator prefers Unicode letter/digit classes and falls back
// to ASCII when they cannot be compiled.
func compileTokenSeparator() (*regexp.Regexp, bool) {
	if re, err := regexp.Compile(`[^\p{L}\p{N}]+`); err == nil {
		return re, false
	}
	return regexp.MustCompile(`[^a-z0-9]+`), true
}

// ASCIIFallback reports whether tokenization runs on the ASCII-only pattern.
func ASCIIFallback() bool {
	return asciiTokens
}

// NewTokenizer creates a tokenizer with the given stopword list. Stopwords are
// folded like input text, so "über" also matches "uber".
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords)*2)
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
		stops[Fold(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// NewDefaultTokenizer uses the built-in multilingual and noise stopwords.
func NewDefaultTokenizer() *Tokenizer {
	return NewTokenizer(stoplist.Static())
}

// Tokenize lowercases, strips diacritics, splits on non letter/digit runs,
// stems, and drops single characters and stopwords. A word is a stopword when
// either its surface form or its stem is listed.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := tokenSeparator.ReplaceAllString(Fold(text), " ")

	var tokens []string
	for _, raw := range strings.Fields(cleaned) {
		word := Stem(raw)
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if t.IsStopword(raw) || t.IsStopword(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// IsStopword reports whether word is in the tokenizer's static stoplist.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// Fold lowercases text, decomposes it (NFKD) and removes combining marks.
// If decomposition fails the lowercased text is returned as is.
func Fold(text string) string {
	lower := strings.ToLower(text)
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.M)))
	folded, _, err := transform.String(chain, lower)
	if err != nil {
		return lower
	}
	// compatibility decomposition can surface capitals (e.g. "ℌ" -> "H")
	return strings.ToLower(folded)
}

// Ordered most specific first; the first match wins.
var suffixes = []string{
	"ments", "ment", "tions", "tion", "ings", "ing", "ers", "er",
	"ies", "ied", "ly", "ed", "es", "s",
}

// Stem strips inflectional suffixes. Tokens of three runes or fewer are
// returned unchanged and a stem is never shorter than three runes. The
// single-suffix rule is repeated until nothing changes, so Stem(Stem(x)) ==
// Stem(x).
func Stem(token string) string {
	for {
		next := stemOnce(token)
		if next == token {
			return token
		}
		token = next
	}
}

func stemOnce(token string) string {
	n := utf8.RuneCountInString(token)
	if n <= 3 {
		return token
	}
	for _, suf := range suffixes {
		if !strings.HasSuffix(token, suf) {
			continue
		}
		if suf == "s" && strings.HasSuffix(token, "ss") {
			return token
		}
		if n-len(suf) > 2 {
			return token[:len(token)-len(suf)]
		}
	}
	return token
}

// AddBigrams appends left_right for every adjacent pair, keeping the
// unigrams. With enabled=false the input is returned unchanged.
func AddBigrams(tokens []string, enabled bool) []string {
	if !enabled || len(tokens) < 2 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*2-1)
	out = append(out, tokens...)
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i] == "" || tokens[i+1] == "" {
			continue
		}
		out = append(out, tokens[i]+"_"+tokens[i+1])
	}
	return out
}
