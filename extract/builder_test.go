package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/span"
)

// mustGraph builds a graph from "form/POS" words and "label gov dep" edges.
func mustGraph(t *testing.T, words string, edges ...string) *graph.Graph {
	t.Helper()

	var tokens []graph.Token
	for i, w := range strings.Fields(words) {
		form, pos, ok := strings.Cut(w, "/")
		require.True(t, ok, w)
		tokens = append(tokens, graph.Token{Index: i + 1, Form: form, Pos: pos})
	}

	var es []graph.Edge
	for _, e := range edges {
		var label string
		var gov, dep int
		_, err := fmt.Sscanf(e, "%s %d %d", &label, &gov, &dep)
		require.NoError(t, err, e)
		es = append(es, graph.Edge{Governor: tokens[gov-1], Dependent: tokens[dep-1], Label: graph.Label(label)})
	}

	g, err := graph.New(tokens, es)
	require.NoError(t, err)
	return g
}

type want map[relation.Kind][]string

func assertResult(t *testing.T, w want, r *relation.Result) {
	t.Helper()
	for _, k := range relation.Kinds() {
		if len(w[k]) == 0 {
			assert.Empty(t, r.Strings(k), "kind %s", k)
			continue
		}
		assert.Equal(t, w[k], r.Strings(k), "kind %s", k)
	}
}

func stanford(opts ...Option) *Builder {
	return NewBuilder(UniversalChinese(), span.TreeClosure{}, opts...)
}

func TestBuildSimple(t *testing.T) {
	g := mustGraph(t, "张三/NR 买/VV 了/AS 书/NN",
		"nsubj 2 1",
		"aux:asp 2 3",
		"dobj 2 4",
	)

	assertResult(t, want{
		relation.Subject:       {"张三"},
		relation.Verb:          {"买"},
		relation.Object:        {"书"},
		relation.SubjectVerb:   {"张三-买"},
		relation.VerbObject:    {"买-书"},
		relation.SubjectObject: {"张三-书"},
	}, stanford().Build(g))
}

func TestBuildModifiedObject(t *testing.T) {
	g := mustGraph(t, "张三/NR 买/VV 新/JJ 书/NN",
		"nsubj 2 1",
		"dobj 2 4",
		"amod 4 3",
	)

	r := stanford().Build(g)
	assert.Equal(t, []string{"新书"}, r.Strings(relation.Object))
	assert.Equal(t, []string{"张三-新书"}, r.Strings(relation.SubjectObject))
}

func TestBuildCopula(t *testing.T) {
	g := mustGraph(t, "他/PN 是/VC 老师/NN",
		"nsubj 3 1",
		"cop 3 2",
	)

	assertResult(t, want{
		relation.Subject:       {"他"},
		relation.Verb:          {"是"},
		relation.Object:        {"老师"},
		relation.SubjectVerb:   {"他-是"},
		relation.VerbObject:    {"是-老师"},
		relation.SubjectObject: {"他-老师"},
	}, stanford().Build(g))
}

func TestBuildCoordinatedVerbsShareObject(t *testing.T) {
	g := mustGraph(t, "张三/NR 买/VV 和/CC 卖/VV 书/NN",
		"nsubj 2 1",
		"conj 2 4",
		"cc 4 3",
		"dobj 4 5",
	)

	assertResult(t, want{
		relation.Subject:       {"张三"},
		relation.Verb:          {"卖", "买"},
		relation.Object:        {"书", "书"},
		relation.SubjectVerb:   {"张三-卖", "张三-买"},
		relation.VerbObject:    {"卖-书", "买-书"},
		relation.SubjectObject: {"张三-书"},
	}, stanford().Build(g))
}

func TestBuildCoordinatedSubjectsAndObjects(t *testing.T) {
	g := mustGraph(t, "张三/NR 和/CC 李四/NR 买/VV 书/NN 和/CC 笔/NN",
		"nsubj 4 1",
		"conj 1 3",
		"dobj 4 5",
		"conj 5 7",
	)

	r := stanford().Build(g)

	assertResult(t, want{
		relation.Subject: {"张三", "李四"},
		relation.Verb:    {"买"},
		// a verb reports the last of its objects
		relation.Object:        {"笔"},
		relation.SubjectVerb:   {"张三-买", "李四-买"},
		relation.VerbObject:    {"买-书", "买-笔"},
		relation.SubjectObject: {"张三-书", "张三-笔", "李四-书", "李四-笔"},
	}, r)
}

func TestBuildCyclicConjunction(t *testing.T) {
	g := mustGraph(t, "张三/NR 李四/NR 来/VV",
		"nsubj 3 1",
		"conj 1 2",
		"conj 2 1",
	)

	r := stanford().Build(g)
	assert.Equal(t, []string{"张三", "李四"}, r.Strings(relation.Subject))
	assert.Empty(t, r.Strings(relation.Verb))
}

func TestBuildPassive(t *testing.T) {
	// coordination headed by the last conjunct
	g := mustGraph(t, "书/NN 被/SB 张三/NR 和/CC 李四/NR 买/VV 和/CC 卖/VV 了/AS",
		"auxpass 6 2",
		"nsubjpass 6 1",
		"conj 5 3",
		"conj 6 8",
		"aux:asp 6 9",
	)

	r := stanford().Build(g)

	assertResult(t, want{
		relation.Subject:       {"李四", "张三"},
		relation.Verb:          {"买", "卖"},
		relation.Object:        {"书"},
		relation.SubjectVerb:   {"李四-买", "李四-卖", "张三-买", "张三-卖"},
		relation.VerbObject:    {"买-书", "卖-书"},
		relation.SubjectObject: {"李四-书", "张三-书"},
	}, r)
}

func TestBuildPassiveWithoutAgent(t *testing.T) {
	g := mustGraph(t, "书/NN 被/SB 买/VV 了/AS",
		"auxpass 3 2",
		"nsubjpass 3 1",
		"aux:asp 3 4",
	)

	assertResult(t, want{
		relation.Verb:       {"买"},
		relation.Object:     {"书"},
		relation.VerbObject: {"买-书"},
	}, stanford().Build(g))
}

func TestBuildPassiveSkipsActiveEdges(t *testing.T) {
	g := mustGraph(t, "书/NN 被/SB 张三/NR 买/VV",
		"auxpass 4 2",
		"nsubj 4 3",
		"dobj 4 1",
	)

	r := stanford().Build(g)

	// the passive reading wins; nothing is emitted twice
	assert.Equal(t, []string{"张三"}, r.Strings(relation.Subject))
	assert.Equal(t, []string{"买-书"}, r.Strings(relation.VerbObject))
	assert.Equal(t, []string{"张三-买"}, r.Strings(relation.SubjectVerb))
}

func TestBuildPassiveNonNominalObject(t *testing.T) {
	g := mustGraph(t, "他/PN 被/SB 打/VV",
		"auxpass 3 2",
		"nsubjpass 3 1",
	)

	// not accepted as passive, and no active subject either
	assert.Equal(t, 0, stanford().Build(g).Len())

	s := UniversalChinese()
	s.MergePassiveSubjects = true
	r := NewBuilder(s, span.TreeClosure{}).Build(g)
	assertResult(t, want{relation.Subject: {"他"}}, r)
}

func TestBuildPassiveCopula(t *testing.T) {
	g := mustGraph(t, "张三/NR 被/SB 选/VV 为/VC 班长/NN",
		"auxpass 3 2",
		"nsubjpass 3 1",
		"cop 5 4",
		"xcomp 3 5",
	)

	assertResult(t, want{
		relation.Subject:       {"张三"},
		relation.Verb:          {"为"},
		relation.Object:        {"班长"},
		relation.SubjectVerb:   {"张三-为"},
		relation.VerbObject:    {"为-班长"},
		relation.SubjectObject: {"张三-班长"},
	}, stanford().Build(g))
}

func TestBuildResidualObject(t *testing.T) {
	g := mustGraph(t, "张三/NR 买/VV 书/NN 读/VV 报/NN",
		"nsubj 2 1",
		"dobj 2 3",
		"dobj 4 5",
	)

	r := stanford().Build(g)

	assert.Equal(t, []string{"买", "读"}, r.Strings(relation.Verb))
	assert.Equal(t, []string{"书", "报"}, r.Strings(relation.Object))
	assert.Equal(t, []string{"买-书", "读-报"}, r.Strings(relation.VerbObject))
	assert.Equal(t, []string{"张三-买"}, r.Strings(relation.SubjectVerb))
}

func TestBuildDedupAcrossSubjects(t *testing.T) {
	// two subject edges reach the same verb-object pair
	g := mustGraph(t, "张三/NR 也/AD 张三/NR 买/VV 书/NN",
		"nsubj 4 1",
		"nsubj 4 3",
		"dobj 4 5",
	)

	r := stanford().Build(g)
	assert.Equal(t, []string{"张三-买"}, r.Strings(relation.SubjectVerb))
	assert.Equal(t, []string{"买-书"}, r.Strings(relation.VerbObject))
	assert.Equal(t, []string{"张三-书"}, r.Strings(relation.SubjectObject))
	assert.Equal(t, []string{"张三", "张三"}, r.Strings(relation.Subject))
}

func TestBuildNoSubject(t *testing.T) {
	g := mustGraph(t, "买/VV 书/NN", "dobj 1 2")
	assert.Equal(t, 0, stanford().Build(g).Len())

	empty, err := graph.New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stanford().Build(empty).Len())
}

func TestBuildHanLP(t *testing.T) {
	g := mustGraph(t, "张三/nr 买/v 英语/n 书/n",
		"SBV 2 1",
		"VOB 2 4",
		"ATT 4 3",
	)

	for _, ext := range []span.Extractor{span.TreeClosure{}, span.POSScan{Nominal: graph.TagMatcher{"n"}}} {
		r := NewBuilder(HanLP(), ext).Build(g)
		assertResult(t, want{
			relation.Subject:       {"张三"},
			relation.Verb:          {"买"},
			relation.Object:        {"英语书"},
			relation.SubjectVerb:   {"张三-买"},
			relation.VerbObject:    {"买-英语书"},
			relation.SubjectObject: {"张三-英语书"},
		}, r)
	}
}

func TestBuildSeparator(t *testing.T) {
	g := mustGraph(t, "old/JJ man/NN sees/VBZ dog/NN",
		"nsubj 3 2",
		"amod 2 1",
		"dobj 3 4",
	)

	r := stanford(WithSeparator(" ")).Build(g)
	assert.Equal(t, []string{"old man-sees"}, r.Strings(relation.SubjectVerb))
}

func TestSchemes(t *testing.T) {
	for _, name := range []string{"universal-chinese", "hanlp", ""} {
		s, err := SchemeByName(name)
		require.NoError(t, err)
		assert.NoError(t, s.Validate())
	}

	_, err := SchemeByName("penn")
	assert.Error(t, err)

	assert.Error(t, Scheme{NominalSubject: "nsubj"}.Validate())
}
