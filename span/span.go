// Package span expands a head token into the maximal contiguous phrase
// anchored at it.
package span

import (
	"sort"
	"strings"

	"github.com/revelaction/svorel/graph"
)

// Phrase is an ordered run of tokens with consecutive indices.
type Phrase []graph.Token

// String concatenates the token forms in reading order.
func (p Phrase) String() string {
	return p.Join("")
}

// Join concatenates the token forms separated by sep.
func (p Phrase) Join(sep string) string {
	forms := make([]string, len(p))
	for i, t := range p {
		forms[i] = t.Form
	}
	return strings.Join(forms, sep)
}

// Contains reports whether the phrase includes the token at index i.
func (p Phrase) Contains(i int) bool {
	for _, t := range p {
		if t.Index == i {
			return true
		}
	}
	return false
}

// Extractor computes the phrase of a head token.
//
// Implementations must return a non-empty phrase with strictly consecutive,
// ascending indices.
type Extractor interface {
	Extend(g *graph.Graph, head graph.Token, modifiers graph.LabelSet) Phrase
}

// TreeClosure collects the head and every token reachable from it through
// modifier edges, then keeps the contiguous run ending at the highest
// collected index. When that run does not reach the head, the run ending at
// the head is kept instead.
type TreeClosure struct {
	// AnchorMax always keeps the run ending at the highest collected index,
	// even when the head falls outside it.
	AnchorMax bool
}

var _ Extractor = TreeClosure{}

func (tc TreeClosure) Extend(g *graph.Graph, head graph.Token, modifiers graph.LabelSet) Phrase {
	closure := []graph.Token{head}
	visited := map[int]bool{head.Index: true}

	stack := []graph.Token{head}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, c := range g.ChildrenIn(t, modifiers) {
			if visited[c.Index] {
				continue
			}
			visited[c.Index] = true
			closure = append(closure, c)
			stack = append(stack, c)
		}
	}

	sort.Slice(closure, func(i, j int) bool { return closure[i].Index < closure[j].Index })

	p := run(closure, len(closure)-1)
	if tc.AnchorMax || p.Contains(head.Index) {
		return p
	}

	// the head is the last closure member at or left of its own index
	n := sort.Search(len(closure), func(i int) bool { return closure[i].Index > head.Index })
	return run(closure, n-1)
}

// run returns the contiguous run of sorted tokens ending at last.
func run(sorted []graph.Token, last int) Phrase {
	first := last
	for first > 0 && sorted[first-1].Index == sorted[first].Index-1 {
		first--
	}
	return append(Phrase(nil), sorted[first:last+1]...)
}

// POSScan extends the head leftwards over tokens with a nominal tag.
type POSScan struct {
	Nominal graph.TagMatcher
}

var _ Extractor = POSScan{}

func (ps POSScan) Extend(g *graph.Graph, head graph.Token, _ graph.LabelSet) Phrase {
	var left []graph.Token
	for i := head.Index - 1; ; i-- {
		t, err := g.Token(i)
		if err != nil || !ps.Nominal.Match(t.Pos) {
			break
		}
		left = append(left, t)
	}

	p := make(Phrase, 0, len(left)+1)
	for i := len(left) - 1; i >= 0; i-- {
		p = append(p, left[i])
	}
	return append(p, head)
}
