package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/parser"
	"github.com/revelaction/svorel/span"
)

func TestDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	s, err := c.ExtractScheme()
	require.NoError(t, err)
	assert.Equal(t, extract.UniversalChinese(), s)
	assert.Equal(t, span.TreeClosure{}, c.Extractor(s))
	assert.Nil(t, c.Loader().Parser)

	l, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}

func TestParse(t *testing.T) {
	const in = `
scheme: hanlp
merge_passive_subjects: true
separator: "_"
span:
  strategy: pos
input:
  use_lemma: true
parser:
  command: hanlp-parse
  args: ["--conll"]
output:
  dir: /tmp/svo
workers: 3
log:
  level: debug
`
	c, err := Parse([]byte(in))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "/tmp/svo", c.Output.Dir)
	// unset fields keep their defaults
	assert.Equal(t, 10, c.Log.MaxSizeMB)

	s, err := c.ExtractScheme()
	require.NoError(t, err)
	assert.Equal(t, extract.HanLPSubject, s.NominalSubject)
	assert.True(t, s.MergePassiveSubjects)
	assert.Equal(t, span.POSScan{Nominal: graph.TagMatcher{"n"}}, c.Extractor(s))

	l := c.Loader()
	cmd, ok := l.Parser.(*parser.Command)
	require.True(t, ok)
	assert.Equal(t, "hanlp-parse", cmd.Path)
	assert.True(t, cmd.Options.UseLemma)

	_, err = c.Builder(nil)
	assert.NoError(t, err)
}

func TestParseCustomLabels(t *testing.T) {
	const in = `
labels:
  name: custom
  nominal_subject: subj
  direct_object: obj
  conjunct: conj
  modifiers: [amod, nmod]
  nominal_tags: [NOUN, PROPN]
`
	c, err := Parse([]byte(in))
	require.NoError(t, err)

	s, err := c.ExtractScheme()
	require.NoError(t, err)
	assert.Equal(t, "custom", s.Name)
	assert.Equal(t, graph.Label("obj"), s.DirectObject)
	assert.Equal(t, []graph.Label{"amod", "nmod"}, s.Modifiers)
	assert.True(t, s.Nominal.Match("PROPN"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"scheme", "scheme: penn"},
		{"strategy", "span: {strategy: chunk}"},
		{"workers", "workers: 0"},
		{"output", "output: {dir: ''}"},
		{"log level", "log: {level: loud}"},
		{"labels", "labels: {name: empty}"},
		{"yaml", "workers: [1"},
		{"separator", "separator: ' '"},
		{"separator tab", "separator: \"a\\tb\""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svorel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
