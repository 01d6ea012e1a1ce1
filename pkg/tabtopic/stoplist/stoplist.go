package stoplist

import "sort"

// Manager holds a set of stopwords together with the reason each was added.
// A nil *Manager behaves as an empty set.
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a token is a stopword
type Reason struct {
	Static  bool    // part of a fixed list
	HighDF  bool    // too common in the current corpus
	DF      int     // tabs containing the token
	DFRatio float64 // DF / corpus size
}

// NewManager creates a manager seeded with fixed stopwords.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]Reason, len(initialStops))
	for _, s := range initialStops {
		stops[s] = Reason{Static: true}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[token]
	return ok
}

// Reason returns why token is a stopword.
func (m *Manager) Reason(token string) (Reason, bool) {
	if m == nil {
		return Reason{}, false
	}
	r, ok := m.stops[token]
	return r, ok
}

// Add adds a token to the stoplist with a reason
func (m *Manager) Add(token string, reason Reason) {
	m.stops[token] = reason
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, token)
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// All returns all stopwords in lexical order.
func (m *Manager) All() []string {
	if m == nil {
		return nil
	}
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Stats is the document frequency of one token within a corpus.
type Stats struct {
	Token string
	DF    int
}

// Candidate is a token that qualifies as a dynamic stopword.
type Candidate struct {
	Token  string
	Reason Reason
}

// Thresholds defines when a token is too common to carry signal.
// Both conditions must hold.
type Thresholds struct {
	MinDocRatio float64 // DF / total >= MinDocRatio
	MinDocs     int     // DF >= MinDocs
}

// SuggestCandidates returns the tokens from stats that meet the thresholds for
// a corpus of totalDocs documents, ordered by descending DF then token.
// Tokens already in the manager are skipped.
func (m *Manager) SuggestCandidates(stats []Stats, totalDocs int, th Thresholds) []Candidate {
	if totalDocs <= 0 {
		return nil
	}
	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue
		}
		ratio := float64(s.DF) / float64(totalDocs)
		if ratio < th.MinDocRatio || s.DF < th.MinDocs {
			continue
		}
		candidates = append(candidates, Candidate{
			Token: s.Token,
			Reason: Reason{
				HighDF:  true,
				DF:      s.DF,
				DFRatio: ratio,
			},
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Reason.DF != candidates[j].Reason.DF {
			return candidates[i].Reason.DF > candidates[j].Reason.DF
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}

// Dynamic builds the per-run stopword set from document frequencies.
// The result is discarded with the run that produced it.
func Dynamic(docFreq map[string]int, totalDocs int, th Thresholds) *Manager {
	stats := make([]Stats, 0, len(docFreq))
	for tok, df := range docFreq {
		stats = append(stats, Stats{Token: tok, DF: df})
	}
	m := NewManager(nil)
	for _, cand := range m.SuggestCandidates(stats, totalDocs, th) {
		m.Add(cand.Token, cand.Reason)
	}
	return m
}
