package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/metrics"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/sink"
	"github.com/revelaction/svorel/span"
	"github.com/revelaction/svorel/storage"
)

type loaderFunc func(ctx context.Context, path string) ([]*graph.Graph, error)

func (f loaderFunc) Load(ctx context.Context, path string) ([]*graph.Graph, error) {
	return f(ctx, path)
}

// 张三 买 书
func buyBook(t *testing.T) *graph.Graph {
	t.Helper()
	zs := graph.Token{Index: 1, Form: "张三", Pos: "NR"}
	buy := graph.Token{Index: 2, Form: "买", Pos: "VV"}
	book := graph.Token{Index: 3, Form: "书", Pos: "NN"}
	g, err := graph.New(
		[]graph.Token{zs, buy, book},
		[]graph.Edge{
			{Governor: buy, Dependent: zs, Label: extract.NominalSubject},
			{Governor: buy, Dependent: book, Label: extract.DirectObject},
		},
	)
	require.NoError(t, err)
	return g
}

type memStore struct {
	mu     sync.Mutex
	runs   []storage.Run
	tuples map[string][]relation.Tuple
}

func (s *memStore) Start(run storage.Run) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *memStore) WriteDoc(runId, doc string, tuples []relation.Tuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tuples == nil {
		s.tuples = map[string][]relation.Tuple{}
	}
	s.tuples[runId+"/"+doc] = tuples
	return nil
}

func newRunner(t *testing.T, l Loader) *Runner {
	return &Runner{
		Loader:  l,
		Driver:  extract.NewDriver(extract.NewBuilder(extract.UniversalChinese(), span.TreeClosure{}), nil),
		Out:     sink.Dir{Root: filepath.Join(t.TempDir(), "out")},
		Workers: 2,
	}
}

func TestExecute(t *testing.T) {
	boom := errors.New("parser crashed")
	l := loaderFunc(func(_ context.Context, path string) ([]*graph.Graph, error) {
		if filepath.Base(path) == "bad.txt" {
			return nil, boom
		}
		return []*graph.Graph{buyBook(t), buyBook(t)}, nil
	})

	r := newRunner(t, l)
	store := &memStore{}
	r.Store = store
	r.Run = storage.NewRun("universal-chinese")
	r.Metrics = metrics.New()

	var progress []int
	var mu sync.Mutex
	r.Progress = func(done, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		progress = append(progress, done)
		assert.Equal(t, 4, total)
	}

	report, err := r.Execute(context.Background(), []string{"in/a.txt", "in/bad.txt", "in/b.txt", "other/a.txt"})
	require.NoError(t, err)

	assert.Equal(t, r.Run.Id, report.RunId)
	assert.Equal(t, 4, report.Documents)
	require.Len(t, report.Failed, 2)
	assert.ErrorIs(t, report.Failed[0].Err, boom)
	assert.Equal(t, "in/bad.txt", report.Failed[0].Path)
	assert.ErrorIs(t, report.Failed[1].Err, ErrDuplicateBase)

	assert.Equal(t, 4, report.Summary.Sentences)
	assert.Equal(t, 4, report.Summary.Tuples[relation.SubjectVerb])
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, progress)

	b, err := os.ReadFile(r.Out.Path(relation.SubjectVerb, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "张三-买 张三-买 ", string(b))

	_, err = os.Stat(r.Out.Path(relation.Subject, "bad.txt"))
	assert.True(t, os.IsNotExist(err))

	require.Len(t, store.runs, 1)
	tuples := store.tuples[r.Run.Id+"/b.txt"]
	require.Len(t, tuples, 12)
	assert.Equal(t, 1, tuples[11].Sentence)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Metrics.Documents.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.Documents.WithLabelValues("failed")))
}

func TestExecuteCanceled(t *testing.T) {
	l := loaderFunc(func(context.Context, string) ([]*graph.Graph, error) {
		return []*graph.Graph{buyBook(t)}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newRunner(t, l).Execute(ctx, []string{"a.txt", "b.txt"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Failed, 2)
}

func TestInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.conllu", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	single := filepath.Join(dir, "b.txt")
	files, err := Inputs([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.conllu"), single, single}, files)

	_, err = Inputs([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
