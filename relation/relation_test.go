package relation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNames(t *testing.T) {
	names := []string{}
	for _, k := range Kinds() {
		names = append(names, k.String())

		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, []string{"S", "V", "O", "SV", "VO", "SO"}, names)

	_, err := ParseKind("OV")
	assert.Error(t, err)

	assert.False(t, Subject.Pairwise())
	assert.True(t, SubjectObject.Pairwise())
}

func TestTupleString(t *testing.T) {
	assert.Equal(t, "张三", Tuple{Kind: Subject, Left: "张三"}.String())
	assert.Equal(t, "张三-买", Tuple{Kind: SubjectVerb, Left: "张三", Right: "买"}.String())
}

func TestAddPairDedup(t *testing.T) {
	r := NewResult(3)
	assert.True(t, r.AddPair(SubjectVerb, "张三", "买"))
	assert.False(t, r.AddPair(SubjectVerb, "张三", "买"))

	// the same text under another kind is a different tuple
	assert.True(t, r.AddPair(VerbObject, "张三", "买"))

	r.Add(Subject, "张三")
	r.Add(Subject, "张三")

	assert.Equal(t, []string{"张三-买"}, r.Strings(SubjectVerb))
	assert.Equal(t, []string{"张三", "张三"}, r.Strings(Subject))
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 3, r.SubjectVerbs[0].Sentence)

	r.SetSentence(7)
	assert.Equal(t, 7, r.Subjects[1].Sentence)
}

func TestZeroResultAddPair(t *testing.T) {
	var r Result
	assert.True(t, r.AddPair(VerbObject, "买", "书"))
	assert.False(t, r.AddPair(VerbObject, "买", "书"))
}

func TestResultJSON(t *testing.T) {
	r := NewResult(0)
	r.Add(Verb, "买")

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, []any{"买"}, m["V"])
	assert.Equal(t, []any{}, m["SO"])
}

func TestSinksEmit(t *testing.T) {
	got := map[Kind][]string{}
	s := Uniform(SinkFunc(func(t Tuple) error {
		got[t.Kind] = append(got[t.Kind], t.String())
		return nil
	}))

	r := NewResult(0)
	r.AddPair(SubjectObject, "张三", "书")
	r.Add(Subject, "张三")
	require.NoError(t, s.Emit(r))

	assert.Equal(t, map[Kind][]string{Subject: {"张三"}, SubjectObject: {"张三-书"}}, got)
}

func TestSinksEmitErrors(t *testing.T) {
	r := NewResult(0)
	r.Add(Object, "书")

	boom := errors.New("disk full")
	s := Uniform(SinkFunc(func(Tuple) error { return boom }))
	assert.ErrorIs(t, s.Emit(r), boom)

	s.Verb = nil
	assert.Error(t, s.Emit(r))
}
