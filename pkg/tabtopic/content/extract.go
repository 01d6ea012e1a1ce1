// Package content produces plain page text for tabs: HTML extraction that
// skips page chrome, and a bounded concurrent fetcher.
package content

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text never describes the page topic.
var skipElements = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {},
	"header": {}, "footer": {}, "nav": {}, "aside": {},
}

var skipRoles = map[string]struct{}{
	"navigation":  {},
	"contentinfo": {},
}

// Fragments of id/class values that mark consent and banner widgets.
var boilerplateMarkers = []string{"cookie", "consent", "banner", "gdpr", "privacy"}

// Extract returns the visible text of the page's main content, whitespace
// collapsed and cut to maxChars runes (no cut when maxChars <= 0). The root
// is the first main, article or role=main element, else body.
func Extract(r io.Reader, maxChars int) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	root := findFirst(doc, isPrimary)
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return n.Data == "body" })
	}
	if root == nil {
		root = doc
	}

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, &b)
	}
	return truncate(strings.Join(strings.Fields(b.String()), " "), maxChars), nil
}

// ExtractString is Extract over an in-memory document.
func ExtractString(s string, maxChars int) (string, error) {
	return Extract(strings.NewReader(s), maxChars)
}

func isPrimary(n *html.Node) bool {
	return n.Data == "main" || n.Data == "article" || strings.EqualFold(attr(n, "role"), "main")
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.ElementNode:
		if isBoilerplate(n) {
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func isBoilerplate(n *html.Node) bool {
	if _, ok := skipElements[n.Data]; ok {
		return true
	}
	if _, ok := skipRoles[strings.ToLower(attr(n, "role"))]; ok {
		return true
	}
	if strings.Contains(strings.ToLower(attr(n, "aria-label")), "breadcrumb") {
		return true
	}
	id := strings.ToLower(attr(n, "id"))
	class := strings.ToLower(attr(n, "class"))
	for _, marker := range boilerplateMarkers {
		if strings.Contains(id, marker) || strings.Contains(class, marker) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	count := 0
	for i := range s {
		if count == maxChars {
			return s[:i]
		}
		count++
	}
	return s
}
