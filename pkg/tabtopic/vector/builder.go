package vector

import (
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
)

// Document holds the token streams of one tab.
type Document struct {
	Title     []string // stripped title tokens plus bigrams when enabled
	TitleOnly []string // stripped title tokens
	URL       []string
	Content   []string // page text tokens plus bigrams; empty without content
}

// CorpusTokens is the token source counted for document frequency.
func (d Document) CorpusTokens(includeContent bool) []string {
	out := make([]string, 0, len(d.Title)+len(d.URL)+len(d.Content))
	out = append(out, d.Title...)
	out = append(out, d.URL...)
	if includeContent {
		out = append(out, d.Content...)
	}
	return out
}

// Corpus is the per-run weighting model shared by all tab vectors.
type Corpus struct {
	Docs      int
	DocFreq   map[string]int
	IDF       IDF
	Stopwords *stoplist.Manager // dynamic stopwords; empty when disabled
}

// Builder turns tabs into term vectors under one configuration.
type Builder struct {
	cfg config.Config
	tok *ingest.Tokenizer
}

// NewBuilder creates a builder. A nil tokenizer selects the default one.
func NewBuilder(cfg config.Config, tok *ingest.Tokenizer) *Builder {
	if tok == nil {
		tok = ingest.NewDefaultTokenizer()
	}
	return &Builder{cfg: cfg, tok: tok}
}

// Tokenizer returns the builder's tokenizer.
func (b *Builder) Tokenizer() *ingest.Tokenizer {
	return b.tok
}

// Document tokenizes one tab. Content is truncated to ContentMaxChars runes
// before tokenizing.
func (b *Builder) Document(rec ingest.TabRecord, content string) Document {
	titleOnly := b.tok.TitleOnlyTokens(rec)
	doc := Document{
		Title:     ingest.AddBigrams(titleOnly, b.cfg.UseBigrams),
		TitleOnly: titleOnly,
		URL:       b.tok.URLTokens(rec.URL),
	}
	if content != "" {
		text := truncateRunes(content, b.cfg.ContentMaxChars)
		doc.Content = ingest.AddBigrams(b.tok.Tokenize(text), b.cfg.UseBigrams)
	}
	return doc
}

// Documents tokenizes every tab. Content is looked up by tab id and may be
// nil.
func (b *Builder) Documents(tabs []ingest.TabRecord, content map[int]string) []Document {
	docs := make([]Document, len(tabs))
	for i, rec := range tabs {
		docs[i] = b.Document(rec, content[rec.ID])
	}
	return docs
}

// Corpus counts document frequencies over docs and derives the IDF model
// and, when enabled, the dynamic stopwords.
func (b *Builder) Corpus(docs []Document, includeContent bool) Corpus {
	counter := NewCounter()
	for _, d := range docs {
		counter.AddDocument(d.CorpusTokens(includeContent))
	}
	corpus := Corpus{
		Docs:    counter.N,
		DocFreq: counter.DF,
		IDF:     counter.IDF(),
	}
	if b.cfg.DynamicStopwordsEnabled {
		corpus.Stopwords = counter.Stopwords(stoplist.Thresholds{
			MinDocRatio: b.cfg.DynamicStopwordsMinDocRatio,
			MinDocs:     b.cfg.DynamicStopwordsMinDocs,
		})
	}
	return corpus
}

func (b *Builder) options(c Corpus) Options {
	return Options{
		IDF:           c.IDF,
		Stopwords:     c.Stopwords,
		NumericWeight: b.cfg.NumericTokenWeight,
	}
}

// TitleVector weights title tokens double and merges in the URL tokens
// scaled by URLTokenWeight. The result is not normalized.
func (b *Builder) TitleVector(d Document, c Corpus) Vector {
	opts := b.options(c)
	title := Scale(Build(d.Title, opts), 2)
	url := Scale(Build(d.URL, opts), b.cfg.URLTokenWeight)
	return Merge(title, url)
}

// ContentVector keeps the ContentTokenLimit strongest content tokens scaled
// by ContentWeight.
func (b *Builder) ContentVector(d Document, c Corpus) Vector {
	if len(d.Content) == 0 {
		return Vector{}
	}
	v := Limit(Build(d.Content, b.options(c)), b.cfg.ContentTokenLimit)
	return Scale(v, b.cfg.ContentWeight)
}

// TabVector is the normalized title vector, plus content when requested.
// A tab without content is title-only.
func (b *Builder) TabVector(d Document, c Corpus, includeContent bool) Vector {
	v := b.TitleVector(d, c)
	if includeContent && len(d.Content) > 0 {
		v = Merge(v, b.ContentVector(d, c))
	}
	return Normalize(v)
}

// Vectors builds the normalized vector of every document.
func (b *Builder) Vectors(docs []Document, c Corpus, includeContent bool) []Vector {
	out := make([]Vector, len(docs))
	for i, d := range docs {
		out[i] = b.TabVector(d, c, includeContent)
	}
	return out
}

// TitleSet is the distinct title-only tokens of d minus dynamic stopwords.
func (b *Builder) TitleSet(d Document, c Corpus) map[string]struct{} {
	set := make(map[string]struct{}, len(d.TitleOnly))
	for _, tok := range d.TitleOnly {
		if c.Stopwords.IsStop(tok) {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// TitleSets builds the title-only token set of every document.
func (b *Builder) TitleSets(docs []Document, c Corpus) []map[string]struct{} {
	out := make([]map[string]struct{}, len(docs))
	for i, d := range docs {
		out[i] = b.TitleSet(d, c)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
