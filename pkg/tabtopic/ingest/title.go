package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

// Separators between a page title and a site name, e.g. "Guide - Site".
var titleSeparators = []string{
	" - ", " | ", " — ", " – ", " · ", " • ", " :: ", " » ", " « ",
}

var titleSplitter = func() *strings.Replacer {
	pairs := make([]string, 0, len(titleSeparators)*2)
	for _, sep := range titleSeparators {
		pairs = append(pairs, sep, "\x00")
	}
	return strings.NewReplacer(pairs...)
}()

// Host labels that say nothing about the site.
var commonTLDs = map[string]struct{}{
	"com": {}, "net": {}, "org": {}, "co": {}, "io": {}, "gov": {}, "edu": {},
	"dev": {}, "app": {}, "ai": {}, "uk": {}, "de": {}, "fr": {}, "es": {},
	"it": {}, "nl": {}, "ru": {}, "jp": {}, "br": {}, "ca": {}, "au": {},
	"us": {}, "ch": {}, "se": {}, "no": {}, "fi": {}, "pl": {}, "pt": {},
	"in": {}, "kr": {}, "cn": {},
}

var (
	wwwPrefix  = regexp.MustCompile(`^www\d?\.`)
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
	asciiAlnum = regexp.MustCompile(`^[a-z0-9]+$`)
)

// HostTokens returns tokens for the site name part of rawURL's host: the
// www prefix and common TLD labels are dropped.
func (t *Tokenizer) HostTokens(rawURL string) []string {
	host := strings.ToLower(Hostname(rawURL))
	host = wwwPrefix.ReplaceAllString(host, "")
	if host == "" {
		return nil
	}
	var labels []string
	for _, label := range strings.Split(host, ".") {
		if label == "" {
			continue
		}
		if _, ok := commonTLDs[label]; ok {
			continue
		}
		labels = append(labels, nonAlnum.ReplaceAllString(label, " "))
	}
	if len(labels) == 0 {
		return nil
	}
	return t.Tokenize(strings.Join(labels, " "))
}

// StripSiteName removes a leading or trailing site-name segment from title.
// A segment qualifies when it shares a token with the host, or contains a
// host token as a substring. The last segment is checked first and at most
// one segment is removed.
func (t *Tokenizer) StripSiteName(title, rawURL string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ""
	}
	hostTokens := t.HostTokens(rawURL)
	if len(hostTokens) == 0 {
		return trimmed
	}

	var parts []string
	for _, p := range strings.Split(titleSplitter.Replace(trimmed), "\x00") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return trimmed
	}

	if t.looksLikeSiteName(parts[len(parts)-1], hostTokens) {
		if rest := strings.TrimSpace(strings.Join(parts[:len(parts)-1], " ")); rest != "" {
			return rest
		}
		return trimmed
	}
	if t.looksLikeSiteName(parts[0], hostTokens) {
		if rest := strings.TrimSpace(strings.Join(parts[1:], " ")); rest != "" {
			return rest
		}
		return trimmed
	}
	return trimmed
}

func (t *Tokenizer) looksLikeSiteName(part string, hostTokens []string) bool {
	tokens := t.Tokenize(part)
	if len(tokens) == 0 {
		return false
	}
	hostSet := make(map[string]struct{}, len(hostTokens))
	for _, h := range hostTokens {
		hostSet[h] = struct{}{}
	}
	for _, tok := range tokens {
		if _, ok := hostSet[tok]; ok {
			return true
		}
	}
	lower := strings.ToLower(part)
	for _, h := range hostTokens {
		if h != "" && strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// TitleText is the tab title with any site-name segment removed.
func (t *Tokenizer) TitleText(rec TabRecord) string {
	return t.StripSiteName(rec.Title, rec.URL)
}

// URLTokens tokenizes the host and the first two non-empty path segments.
// Pure numbers and short ASCII tokens are dropped.
func (t *Tokenizer) URLTokens(rawURL string) []string {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
		if len(segments) == 2 {
			break
		}
	}
	combined := strings.TrimSpace(u.Hostname() + " " + strings.Join(segments, " "))
	if combined == "" {
		return nil
	}
	var out []string
	for _, tok := range t.Tokenize(combined) {
		if digitsOnly.MatchString(tok) {
			continue
		}
		if asciiAlnum.MatchString(tok) && len(tok) <= 2 {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TitleOnlyTokens tokenizes the stripped title without bigrams or URL tokens.
func (t *Tokenizer) TitleOnlyTokens(rec TabRecord) []string {
	return t.Tokenize(t.TitleText(rec))
}

// TitleTokens is the title signal of a tab: stripped title tokens, their
// bigrams when enabled, then the URL tokens.
func (t *Tokenizer) TitleTokens(rec TabRecord, useBigrams bool) []string {
	tokens := AddBigrams(t.TitleOnlyTokens(rec), useBigrams)
	return append(tokens, t.URLTokens(rec.URL)...)
}
