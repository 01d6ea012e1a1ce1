package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripSiteName(t *testing.T) {
	tokenizer := NewDefaultTokenizer()

	tests := []struct {
		name  string
		title string
		url   string
		want  string
	}{
		{
			name:  "trailing site name",
			title: "Python Tutorial - RealPython",
			url:   "https://realpython.com/python-tutorial/",
			want:  "Python Tutorial",
		},
		{
			name:  "leading site name",
			title: "RealPython | Python Tutorial",
			url:   "https://www.realpython.com/",
			want:  "Python Tutorial",
		},
		{
			name:  "both ends match, only last stripped",
			title: "Kubernetes - Pods Guide - Kubernetes Blog",
			url:   "https://kubernetes.io/blog/",
			want:  "Kubernetes Pods Guide",
		},
		{
			name:  "no separator",
			title: "Python Tutorial",
			url:   "https://realpython.com/",
			want:  "Python Tutorial",
		},
		{
			name:  "no host",
			title: "Python - Tutorial",
			url:   "",
			want:  "Python - Tutorial",
		},
		{
			name:  "no segment matches host",
			title: "Gardening Roses | Spring Planting",
			url:   "https://example.org/roses",
			want:  "Gardening Roses | Spring Planting",
		},
		{
			name:  "em dash separator",
			title: "Sourdough Starter — BakeSchool",
			url:   "https://bakeschool.net/starter",
			want:  "Sourdough Starter",
		},
		{
			name:  "empty title",
			title: "   ",
			url:   "https://realpython.com/",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizer.StripSiteName(tt.title, tt.url)
			if got != tt.want {
				t.Errorf("StripSiteName(%q, %q) = %q, want %q", tt.title, tt.url, got, tt.want)
			}
		})
	}
}

func TestHostTokens(t *testing.T) {
	tokenizer := NewDefaultTokenizer()

	tests := []struct {
		url  string
		want []string
	}{
		{"https://www.realpython.com/x", []string{"realpython"}},
		{"https://docs.python.org/3/", []string{"python"}},
		{"https://bbc.co.uk/", []string{"bbc"}},
		{"not a url", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := tokenizer.HostTokens(tt.url)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("HostTokens(%q) mismatch (-want +got):\n%s", tt.url, diff)
		}
	}
}

func TestURLTokens(t *testing.T) {
	tokenizer := NewDefaultTokenizer()

	tests := []struct {
		url  string
		want []string
	}{
		{
			url:  "https://www.realpython.com/python-tutorial/part-2/extra",
			want: []string{"realpython", "python", "tutorial", "part"},
		},
		{
			url:  "https://example.com/123/ab",
			want: []string{"example"},
		},
		{
			url:  "",
			want: nil,
		},
	}
	for _, tt := range tests {
		got := tokenizer.URLTokens(tt.url)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("URLTokens(%q) mismatch (-want +got):\n%s", tt.url, diff)
		}
	}
}

func TestTitleTokens(t *testing.T) {
	tokenizer := NewDefaultTokenizer()
	rec := TabRecord{
		ID:    1,
		Title: "Python Tutorial - RealPython",
		URL:   "https://realpython.com/python-tutorial/",
	}

	got := tokenizer.TitleTokens(rec, true)
	want := []string{"python", "tutorial", "python_tutorial", "realpython", "python", "tutorial"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TitleTokens mismatch (-want +got):\n%s", diff)
	}

	only := tokenizer.TitleOnlyTokens(rec)
	if diff := cmp.Diff([]string{"python", "tutorial"}, only); diff != "" {
		t.Errorf("TitleOnlyTokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTitleTokensMissingFields(t *testing.T) {
	tokenizer := NewDefaultTokenizer()
	if got := tokenizer.TitleTokens(TabRecord{ID: 3}, true); len(got) != 0 {
		t.Errorf("empty record should yield no tokens, got %v", got)
	}
}
