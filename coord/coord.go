// Package coord follows coordination ("A and B") edges from a head token.
package coord

import (
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/span"
)

// Direction tells on which side of the head the conjunct edge hangs.
type Direction int

const (
	// Children follows conjunct edges governed by the head (head -conj-> X).
	Children Direction = iota

	// Parents follows conjunct edges whose dependent is the head (X -conj-> head).
	Parents
)

func (d Direction) String() string {
	switch d {
	case Children:
		return "children"
	case Parents:
		return "parents"
	}
	return "unknown"
}

// Propagator enumerates the coordinates of a head token.
type Propagator struct {
	Label     graph.Label
	Direction Direction

	// Extractor and Modifiers compute the phrase of each coordinate.
	Extractor span.Extractor
	Modifiers graph.LabelSet
}

func (p Propagator) next(g *graph.Graph, t graph.Token) []graph.Token {
	if p.Direction == Parents {
		return g.Parents(t, p.Label)
	}
	return g.Children(t, p.Label)
}

// Tokens returns every token reachable from head through one or more conjunct
// edges, in depth-first preorder. Each token appears once and head never
// appears, even on cyclic input.
func (p Propagator) Tokens(g *graph.Graph, head graph.Token) []graph.Token {
	if p.Label == "" {
		return nil
	}

	var found []graph.Token
	visited := map[int]bool{head.Index: true}

	stack := reversed(p.next(g, head))
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[t.Index] {
			continue
		}
		visited[t.Index] = true
		found = append(found, t)

		stack = append(stack, reversed(p.next(g, t))...)
	}

	return found
}

// Members returns head followed by its coordinates.
func (p Propagator) Members(g *graph.Graph, head graph.Token) []graph.Token {
	return append([]graph.Token{head}, p.Tokens(g, head)...)
}

// Phrases returns the phrase of each coordinate of head, head excluded.
func (p Propagator) Phrases(g *graph.Graph, head graph.Token) []span.Phrase {
	coords := p.Tokens(g, head)
	phrases := make([]span.Phrase, 0, len(coords))
	for _, t := range coords {
		phrases = append(phrases, p.Extractor.Extend(g, t, p.Modifiers))
	}
	return phrases
}

// MemberPhrases returns the phrase of head followed by the phrases of its
// coordinates.
func (p Propagator) MemberPhrases(g *graph.Graph, head graph.Token) []span.Phrase {
	return append([]span.Phrase{p.Extractor.Extend(g, head, p.Modifiers)}, p.Phrases(g, head)...)
}

func reversed(ts []graph.Token) []graph.Token {
	r := make([]graph.Token, len(ts))
	for i, t := range ts {
		r[len(ts)-1-i] = t
	}
	return r
}
