package topic

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// DefaultLabel names a group without usable keywords.
const DefaultLabel = "Topic"

// TopKeywords sums member vectors and returns the limit heaviest tokens.
// Equal weights rank the longer token first, then lexical order.
func TopKeywords(vectors []vector.Vector, limit int) []vector.Entry {
	sum := make(map[string]float64)
	for _, v := range vectors {
		for tok, w := range v {
			sum[tok] += w
		}
	}
	entries := make([]vector.Entry, 0, len(sum))
	for tok, w := range sum {
		entries = append(entries, vector.Entry{Token: tok, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if la, lb := utf8.RuneCountInString(a.Token), utf8.RuneCountInString(b.Token); la != lb {
			return la > lb
		}
		return a.Token < b.Token
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Label builds a short group name from the cluster's strongest keywords.
func Label(vectors []vector.Vector, cfg config.Config) string {
	entries := TopKeywords(vectors, cfg.TitleKeywordLimit)
	if len(entries) == 0 {
		return DefaultLabel
	}
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		word := titleCase(e.Token)
		if word == "" {
			continue
		}
		if cfg.TitleIncludeScores {
			word = fmt.Sprintf("%s(%.2f)", word, e.Weight)
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return DefaultLabel
	}
	return Abbreviate(strings.Join(words, " "), cfg.LabelMaxChars)
}

// DebugKeywords renders the strongest keywords as "token:weight".
func DebugKeywords(vectors []vector.Vector, cfg config.Config) []string {
	entries := TopKeywords(vectors, cfg.DebugKeywordLimit)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s:%.2f", e.Token, e.Weight)
	}
	return out
}

// Abbreviate shortens s to at most maxChars runes, ending in an ellipsis
// when cut.
func Abbreviate(s string, maxChars int) string {
	if maxChars < 2 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-1]) + "…"
}

func titleCase(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
