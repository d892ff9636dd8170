// Package graph is a read-only view of one dependency-parsed sentence:
// indexed tokens and labeled directed edges between them.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a token index is outside the sentence.
var ErrNotFound = errors.New("token not found")

// Label is a dependency relation name as produced by the parser, e.g. "nsubj".
type Label string

// Token represents a word of the sentence.
type Token struct {
	// Index is the 1-based position of the token in the sentence.
	Index int `json:"index"`

	// Form is the word (or lemma) rendered in phrases.
	Form string `json:"form"`

	// Pos is the part-of-speech tag
	Pos string `json:"pos"`
}

// Edge is a labeled relation from a governor to a dependent.
type Edge struct {
	Governor  Token `json:"governor"`
	Dependent Token `json:"dependent"`
	Label     Label `json:"label"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s(%s-%d, %s-%d)", e.Label, e.Governor.Form, e.Governor.Index, e.Dependent.Form, e.Dependent.Index)
}

// LabelSet is a set of relation labels.
type LabelSet map[Label]struct{}

func NewLabelSet(labels ...Label) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

func (s LabelSet) Has(l Label) bool {
	_, ok := s[l]
	return ok
}

// TagMatcher classifies part-of-speech tags by prefix.
//
// A TagMatcher of {"N"} matches the CTB tags NN, NR and NT.
type TagMatcher []string

func (m TagMatcher) Match(pos string) bool {
	for _, prefix := range m {
		if prefix != "" && strings.HasPrefix(pos, prefix) {
			return true
		}
	}
	return false
}

// Graph is the dependency graph of one sentence. A Graph is never modified
// after New returns.
type Graph struct {
	tokens []Token

	// out and in are indexed by token index; slot 0 is unused.
	out [][]Edge
	in  [][]Edge

	byLabel map[Label][]Edge
}

// New builds a Graph. The token indices must be exactly 1..len(tokens) and
// every edge must reference tokens of the sentence. Duplicate edges are
// collapsed.
func New(tokens []Token, edges []Edge) (*Graph, error) {
	g := &Graph{
		tokens:  make([]Token, len(tokens)),
		out:     make([][]Edge, len(tokens)+1),
		in:      make([][]Edge, len(tokens)+1),
		byLabel: map[Label][]Edge{},
	}

	for _, t := range tokens {
		if t.Index < 1 || t.Index > len(tokens) {
			return nil, fmt.Errorf("token %q has index %d outside 1..%d", t.Form, t.Index, len(tokens))
		}
		if g.tokens[t.Index-1].Index != 0 {
			return nil, fmt.Errorf("duplicate token index %d", t.Index)
		}
		g.tokens[t.Index-1] = t
	}

	type key struct {
		gov, dep int
		label    Label
	}
	seen := map[key]bool{}

	for _, e := range edges {
		gov, err := g.Token(e.Governor.Index)
		if err != nil {
			return nil, fmt.Errorf("edge %s: governor: %w", e, err)
		}
		dep, err := g.Token(e.Dependent.Index)
		if err != nil {
			return nil, fmt.Errorf("edge %s: dependent: %w", e, err)
		}

		k := key{gov.Index, dep.Index, e.Label}
		if seen[k] {
			continue
		}
		seen[k] = true

		// Always store the graph's own tokens, not the caller's copies.
		edge := Edge{Governor: gov, Dependent: dep, Label: e.Label}
		g.out[gov.Index] = append(g.out[gov.Index], edge)
		g.in[dep.Index] = append(g.in[dep.Index], edge)
		g.byLabel[e.Label] = append(g.byLabel[e.Label], edge)
	}

	for i := range g.out {
		sortEdges(g.out[i])
		sortEdges(g.in[i])
	}
	for _, es := range g.byLabel {
		sortEdges(es)
	}

	return g, nil
}

// sortEdges orders edges by dependent index, then governor index, then label.
func sortEdges(es []Edge) {
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].Dependent.Index != es[j].Dependent.Index {
			return es[i].Dependent.Index < es[j].Dependent.Index
		}
		if es[i].Governor.Index != es[j].Governor.Index {
			return es[i].Governor.Index < es[j].Governor.Index
		}
		return es[i].Label < es[j].Label
	})
}

// Len returns the number of tokens.
func (g *Graph) Len() int {
	return len(g.tokens)
}

// Tokens returns the tokens in reading order.
func (g *Graph) Tokens() []Token {
	return append([]Token(nil), g.tokens...)
}

// Edges returns all edges, grouped by governor in reading order.
func (g *Graph) Edges() []Edge {
	var all []Edge
	for _, es := range g.out {
		all = append(all, es...)
	}
	return all
}

// Token returns the token at the 1-based index i.
func (g *Graph) Token(i int) (Token, error) {
	if i < 1 || i > len(g.tokens) {
		return Token{}, fmt.Errorf("index %d of sentence with %d tokens: %w", i, len(g.tokens), ErrNotFound)
	}
	return g.tokens[i-1], nil
}

// Outgoing returns the edges governed by t.
func (g *Graph) Outgoing(t Token) []Edge {
	if !g.has(t) {
		return nil
	}
	return append([]Edge(nil), g.out[t.Index]...)
}

// Incoming returns the edges whose dependent is t.
func (g *Graph) Incoming(t Token) []Edge {
	if !g.has(t) {
		return nil
	}
	return append([]Edge(nil), g.in[t.Index]...)
}

// ChildrenIn returns the distinct dependents of t reached by an edge whose
// label is in labels, ordered by index.
func (g *Graph) ChildrenIn(t Token, labels LabelSet) []Token {
	if !g.has(t) {
		return nil
	}

	var children []Token
	last := 0
	for _, e := range g.out[t.Index] {
		if !labels.Has(e.Label) {
			continue
		}
		// out edges are sorted by dependent index
		if e.Dependent.Index == last {
			continue
		}
		last = e.Dependent.Index
		children = append(children, e.Dependent)
	}
	return children
}

// Children returns the dependents of t reached by an edge labeled l.
func (g *Graph) Children(t Token, l Label) []Token {
	return g.ChildrenIn(t, NewLabelSet(l))
}

// Parents returns the governors of t reached by an edge labeled l, ordered by
// index.
func (g *Graph) Parents(t Token, l Label) []Token {
	if !g.has(t) {
		return nil
	}

	var parents []Token
	for _, e := range g.in[t.Index] {
		if e.Label == l {
			parents = append(parents, e.Governor)
		}
	}
	sort.SliceStable(parents, func(i, j int) bool { return parents[i].Index < parents[j].Index })
	return parents
}

// EdgesWithLabel returns all edges labeled l, in reading order of their
// dependents.
func (g *Graph) EdgesWithLabel(l Label) []Edge {
	if l == "" {
		return nil
	}
	return append([]Edge(nil), g.byLabel[l]...)
}

func (g *Graph) has(t Token) bool {
	return t.Index >= 1 && t.Index <= len(g.tokens)
}

// String renders the sentence text, tokens separated by a space.
func (g *Graph) String() string {
	forms := make([]string, len(g.tokens))
	for i, t := range g.tokens {
		forms[i] = t.Form
	}
	return strings.Join(forms, " ")
}
