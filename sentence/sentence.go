// Package sentence holds documents parsed by spaCy or stanza and converts
// their sentences to dependency graphs.
package sentence

import (
	"fmt"

	"github.com/revelaction/svorel/graph"
)

type Doc struct {
	Id int

	Title string

	Labels []string
	Tokens [][]Token `json:"tokens"`
}

// Library is a collection of Doc
type Library []Doc

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	// Id is the index of the token in the document (spacy token.i).
	Id int `json:"id"`

	// Head is the Id of the syntactic head. The root points to itself.
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`
}

const rootDep = "ROOT"

// Options controls the conversion of tokens to graph tokens.
type Options struct {
	// UseLemma renders tokens by lemma instead of text.
	UseLemma bool

	// UniversalPos uses the coarse Pos instead of the detailed Tag.
	UniversalPos bool
}

// Graph converts the tokens of one sentence. Graph indices follow the token
// order, starting at 1.
func Graph(sentence []Token, opts Options) (*graph.Graph, error) {
	tokens := make([]graph.Token, len(sentence))
	byId := make(map[int]graph.Token, len(sentence))

	for i, t := range sentence {
		form := t.Text
		if opts.UseLemma && t.Lemma != "" {
			form = t.Lemma
		}

		pos := t.Tag
		if opts.UniversalPos || pos == "" {
			pos = t.Pos
		}

		tokens[i] = graph.Token{Index: i + 1, Form: form, Pos: pos}
		byId[t.Id] = tokens[i]
	}

	var edges []graph.Edge
	for i, t := range sentence {
		if t.Head == t.Id || t.Dep == rootDep {
			continue
		}

		gov, ok := byId[t.Head]
		if !ok {
			return nil, fmt.Errorf("token %q (id %d): head %d outside the sentence: %w", t.Text, t.Id, t.Head, graph.ErrNotFound)
		}
		edges = append(edges, graph.Edge{Governor: gov, Dependent: tokens[i], Label: graph.Label(t.Dep)})
	}

	return graph.New(tokens, edges)
}

// Graphs converts every sentence of the doc.
func (d Doc) Graphs(opts Options) ([]*graph.Graph, error) {
	graphs := make([]*graph.Graph, 0, len(d.Tokens))
	for i, s := range d.Tokens {
		g, err := Graph(s, opts)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}
