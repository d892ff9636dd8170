package sentence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/svorel/graph"
)

// second sentence of a doc: ids continue from the first one
const docJSON = `{
  "Id": 3,
  "Title": "ejemplo",
  "tokens": [
    [
      {"id": 0, "head": 1, "dep": "nsubj", "pos": "PROPN", "tag": "NR", "text": "张三", "lemma": "张三", "index": 0},
      {"id": 1, "head": 1, "dep": "ROOT", "pos": "VERB", "tag": "VV", "text": "买", "lemma": "买", "index": 1},
      {"id": 2, "head": 1, "dep": "dobj", "pos": "NOUN", "tag": "NN", "text": "书", "lemma": "书", "index": 2}
    ],
    [
      {"id": 3, "head": 4, "dep": "nsubj", "pos": "NOUN", "tag": "", "text": "gatos", "lemma": "gato", "index": 0},
      {"id": 4, "head": 4, "dep": "ROOT", "pos": "VERB", "tag": "", "text": "comen", "lemma": "comer", "index": 1}
    ]
  ]
}`

func TestDocGraphs(t *testing.T) {
	var doc Doc
	require.NoError(t, json.Unmarshal([]byte(docJSON), &doc))

	graphs, err := doc.Graphs(Options{})
	require.NoError(t, err)
	require.Len(t, graphs, 2)

	g := graphs[0]
	assert.Equal(t, "张三 买 书", g.String())
	dobj := g.EdgesWithLabel("dobj")
	require.Len(t, dobj, 1)
	assert.Equal(t, graph.Token{Index: 2, Form: "买", Pos: "VV"}, dobj[0].Governor)
	assert.Empty(t, g.EdgesWithLabel(rootDep))

	g = graphs[1]
	nsubj := g.EdgesWithLabel("nsubj")
	require.Len(t, nsubj, 1)
	assert.Equal(t, 1, nsubj[0].Dependent.Index)
	// empty tag falls back to the coarse pos
	assert.Equal(t, "NOUN", nsubj[0].Dependent.Pos)
}

func TestGraphOptions(t *testing.T) {
	var doc Doc
	require.NoError(t, json.Unmarshal([]byte(docJSON), &doc))

	graphs, err := doc.Graphs(Options{UseLemma: true, UniversalPos: true})
	require.NoError(t, err)
	assert.Equal(t, "gato comer", graphs[1].String())

	tok, err := graphs[0].Token(1)
	require.NoError(t, err)
	assert.Equal(t, "PROPN", tok.Pos)
}

func TestGraphHeadOutsideSentence(t *testing.T) {
	_, err := Graph([]Token{{Id: 5, Head: 9, Dep: "nsubj", Text: "x"}}, Options{})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}
