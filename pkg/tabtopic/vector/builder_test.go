package vector

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

var realPython = ingest.TabRecord{
	ID:    1,
	Title: "Python Tutorial - RealPython",
	URL:   "https://realpython.com/python-tutorial/",
}

func TestDocument(t *testing.T) {
	b := NewBuilder(config.Default(), nil)

	doc := b.Document(realPython, "")
	want := Document{
		Title:     []string{"python", "tutorial", "python_tutorial"},
		TitleOnly: []string{"python", "tutorial"},
		URL:       []string{"realpython", "python", "tutorial"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Document mismatch (-want +got):\n%s", diff)
	}
}

func TestTitleVectorWeights(t *testing.T) {
	b := NewBuilder(config.Default(), nil)
	doc := b.Document(realPython, "")

	got := b.TitleVector(doc, Corpus{})
	want := Vector{
		"python":          2.35,
		"tutorial":        2.35,
		"python_tutorial": 2,
		"realpython":      0.35,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("TitleVector mismatch (-want +got):\n%s", diff)
	}
}

func TestContentVectorLimitAndWeight(t *testing.T) {
	cfg := config.Default()
	cfg.UseBigrams = false
	cfg.ContentTokenLimit = 2
	b := NewBuilder(cfg, nil)

	doc := b.Document(ingest.TabRecord{ID: 2}, "kafka kafka kafka stream stream broker")
	got := b.ContentVector(doc, Corpus{})
	want := Vector{"kafka": 1.8, "stream": 1.2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ContentVector mismatch (-want +got):\n%s", diff)
	}
}

func TestTabVectorWithoutContentIsTitleOnly(t *testing.T) {
	b := NewBuilder(config.Default(), nil)
	doc := b.Document(realPython, "")

	withFlag := b.TabVector(doc, Corpus{}, true)
	without := b.TabVector(doc, Corpus{}, false)
	if diff := cmp.Diff(without, withFlag); diff != "" {
		t.Errorf("missing content should equal title-only (-want +got):\n%s", diff)
	}
	if math.Abs(withFlag.Norm()-1) > eps {
		t.Errorf("tab vector norm = %f, want 1", withFlag.Norm())
	}
}

func TestTabVectorIncludesContent(t *testing.T) {
	b := NewBuilder(config.Default(), nil)
	doc := b.Document(realPython, "decorators explained with closures")

	with := b.TabVector(doc, Corpus{}, true)
	without := b.TabVector(doc, Corpus{}, false)
	if _, ok := with["closur"]; !ok {
		t.Errorf("content token missing from %v", with)
	}
	if _, ok := without["closur"]; ok {
		t.Error("title-only vector must not carry content tokens")
	}
}

func TestCorpusDynamicStopwords(t *testing.T) {
	cfg := config.Default()
	cfg.DynamicStopwordsMinDocRatio = 0.8
	cfg.DynamicStopwordsMinDocs = 3
	b := NewBuilder(cfg, nil)

	docs := make([]Document, 10)
	for i := 0; i < 9; i++ {
		docs[i] = Document{Title: []string{"acmeportal"}, TitleOnly: []string{"acmeportal"}}
	}
	docs[9] = Document{Title: []string{"lighthouse"}, TitleOnly: []string{"lighthouse"}}

	corpus := b.Corpus(docs, false)
	if corpus.Docs != 10 || corpus.DocFreq["acmeportal"] != 9 {
		t.Fatalf("unexpected corpus counts: %d docs, df %d", corpus.Docs, corpus.DocFreq["acmeportal"])
	}
	if !corpus.Stopwords.IsStop("acmeportal") {
		t.Fatal("acmeportal should be a dynamic stopword")
	}
	if v := b.TitleVector(docs[0], corpus); len(v) != 0 {
		t.Errorf("stopword leaked into vector: %v", v)
	}
	if set := b.TitleSet(docs[0], corpus); len(set) != 0 {
		t.Errorf("stopword leaked into title set: %v", set)
	}

	cfg.DynamicStopwordsEnabled = false
	disabled := NewBuilder(cfg, nil).Corpus(docs, false)
	if disabled.Stopwords.IsStop("acmeportal") {
		t.Error("disabled dynamic stopwords should suppress nothing")
	}
}

func TestCorpusContentToggle(t *testing.T) {
	b := NewBuilder(config.Default(), nil)
	docs := []Document{{Title: []string{"python"}, Content: []string{"kafka"}}}

	if df := b.Corpus(docs, false).DocFreq["kafka"]; df != 0 {
		t.Errorf("content counted without includeContent: df=%d", df)
	}
	if df := b.Corpus(docs, true).DocFreq["kafka"]; df != 1 {
		t.Errorf("content df = %d, want 1", df)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 4); got != "héll" {
		t.Errorf("truncateRunes = %q, want %q", got, "héll")
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("truncateRunes = %q", got)
	}
}
