package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/svorel/graph"
)

var modifiers = graph.NewLabelSet("compound:nn", "amod", "nmod:assmod", "case")

func build(t *testing.T, tokens []graph.Token, edges ...graph.Edge) *graph.Graph {
	t.Helper()
	g, err := graph.New(tokens, edges)
	require.NoError(t, err)
	return g
}

func tk(i int, form, pos string) graph.Token {
	return graph.Token{Index: i, Form: form, Pos: pos}
}

func e(gov, dep graph.Token, l graph.Label) graph.Edge {
	return graph.Edge{Governor: gov, Dependent: dep, Label: l}
}

func assertContiguous(t *testing.T, p Phrase) {
	t.Helper()
	require.NotEmpty(t, p)
	assert.Equal(t, len(p), p[len(p)-1].Index-p[0].Index+1, "phrase %v is not contiguous", p)
}

func TestTreeClosureRecursive(t *testing.T) {
	// 中国 人民 银行 行长: 行长 <-compound- 银行 <-compound- 人民 <-compound- 中国
	zg, rm, yh, hz := tk(1, "中国", "NR"), tk(2, "人民", "NN"), tk(3, "银行", "NN"), tk(4, "行长", "NN")
	g := build(t, []graph.Token{zg, rm, yh, hz},
		e(hz, yh, "compound:nn"),
		e(yh, rm, "compound:nn"),
		e(rm, zg, "compound:nn"),
	)

	p := TreeClosure{}.Extend(g, hz, modifiers)
	assertContiguous(t, p)
	assert.Equal(t, "中国人民银行行长", p.String())
	assert.Equal(t, "中国 人民 银行 行长", p.Join(" "))
}

func TestTreeClosureGapTruncates(t *testing.T) {
	// 新 的 大 书 with 新 -amod-> 书 but 的 not a modifier: gap at 2.
	xin, de, da, shu := tk(1, "新", "JJ"), tk(2, "的", "DEG"), tk(3, "大", "JJ"), tk(4, "书", "NN")
	g := build(t, []graph.Token{xin, de, da, shu},
		e(shu, xin, "amod"),
		e(shu, da, "amod"),
	)

	p := TreeClosure{}.Extend(g, shu, modifiers)
	assertContiguous(t, p)
	assert.Equal(t, "大书", p.String())
}

func TestTreeClosureSingleToken(t *testing.T) {
	a := tk(1, "书", "NN")
	g := build(t, []graph.Token{a})
	assert.Equal(t, Phrase{a}, TreeClosure{}.Extend(g, a, modifiers))
}

func TestTreeClosureCycle(t *testing.T) {
	a, b := tk(1, "a", "NN"), tk(2, "b", "NN")
	g := build(t, []graph.Token{a, b},
		e(b, a, "amod"),
		e(a, b, "amod"),
	)

	p := TreeClosure{}.Extend(g, b, modifiers)
	assert.Equal(t, "ab", p.String())
}

// A modifier right of the head behind a gap: by default the run ending at the
// head is kept, AnchorMax keeps the run ending at the modifier.
func TestTreeClosureModifierAfterHead(t *testing.T) {
	a, head, gap, mod := tk(1, "a", "NN"), tk(2, "h", "NN"), tk(3, "x", "PU"), tk(4, "m", "NN")
	g := build(t, []graph.Token{a, head, gap, mod},
		e(head, a, "compound:nn"),
		e(head, mod, "amod"),
	)

	p := TreeClosure{}.Extend(g, head, modifiers)
	assertContiguous(t, p)
	assert.Equal(t, "ah", p.String())
	assert.True(t, p.Contains(head.Index))

	p = TreeClosure{AnchorMax: true}.Extend(g, head, modifiers)
	assertContiguous(t, p)
	assert.Equal(t, "m", p.String())
	assert.False(t, p.Contains(head.Index))
}

func TestTreeClosureAdjacentModifierAfterHead(t *testing.T) {
	a, head, mod := tk(1, "新", "JJ"), tk(2, "书", "NN"), tk(3, "吧", "SP")
	g := build(t, []graph.Token{a, head, mod},
		e(head, a, "amod"),
		e(head, mod, "case"),
	)

	for _, tc := range []TreeClosure{{}, {AnchorMax: true}} {
		p := tc.Extend(g, head, modifiers)
		assertContiguous(t, p)
		assert.Equal(t, "新书吧", p.String())
	}
}

func TestPOSScan(t *testing.T) {
	tokens := []graph.Token{
		tk(1, "昨天", "nt"),
		tk(2, "买", "v"),
		tk(3, "北京", "ns"),
		tk(4, "大学", "n"),
		tk(5, "教材", "n"),
	}
	g := build(t, tokens)
	ps := POSScan{Nominal: graph.TagMatcher{"n"}}

	p := ps.Extend(g, tokens[4], nil)
	assertContiguous(t, p)
	assert.Equal(t, "北京大学教材", p.String())

	// scan runs into the sentence start
	p = ps.Extend(g, tokens[0], nil)
	assert.Equal(t, "昨天", p.String())

	// the head itself need not be nominal
	p = ps.Extend(g, tokens[1], nil)
	assert.Equal(t, "昨天买", p.String())
}
