package stat

import (
	"sort"

	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/relation"
)

type Handler struct {
	stats Stats

	// freq counts the rendered tuples of each kind
	freq map[relation.Kind]map[string]int
}

type Stats struct {
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// NumProductive is the number of sentences with at least one tuple.
	NumProductive int

	Tuples map[relation.Kind]int
}

// Count is a tuple text and its number of occurrences.
type Count struct {
	Text string
	N    int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		Tuples:               map[relation.Kind]int{},
	}
	return &Handler{
		stats: stats,
		freq:  map[relation.Kind]map[string]int{},
	}
}

// Aggregate adds the sentences of a document and their results. results[i]
// belongs to graphs[i].
func (h *Handler) Aggregate(graphs []*graph.Graph, results []*relation.Result) {
	for _, g := range graphs {
		h.stats.NumSentences++
		h.stats.NumTokens += g.Len()
		h.stats.TokensPerSentenceDis[g.Len()]++
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}

	for _, r := range results {
		if r.Len() > 0 {
			h.stats.NumProductive++
		}
		for _, k := range relation.Kinds() {
			for _, s := range r.Strings(k) {
				h.stats.Tuples[k]++
				if h.freq[k] == nil {
					h.freq[k] = map[string]int{}
				}
				h.freq[k][s]++
			}
		}
	}
}

// Top returns the n most frequent tuples of kind k, ties in text order.
func (h *Handler) Top(k relation.Kind, n int) []Count {
	counts := make([]Count, 0, len(h.freq[k]))
	for text, c := range h.freq[k] {
		counts = append(counts, Count{Text: text, N: c})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Text < counts[j].Text
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
