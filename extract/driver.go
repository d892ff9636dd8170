package extract

import (
	"fmt"
	"log/slog"

	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/relation"
)

// Summary counts what a Driver run produced.
type Summary struct {
	Sentences int

	// Productive is the number of sentences with at least one tuple.
	Productive int

	Tuples map[relation.Kind]int
}

// Total returns the number of tuples of all kinds.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Tuples {
		n += c
	}
	return n
}

// Add merges o into s.
func (s *Summary) Add(o Summary) {
	s.Sentences += o.Sentences
	s.Productive += o.Productive
	if s.Tuples == nil {
		s.Tuples = map[relation.Kind]int{}
	}
	for k, c := range o.Tuples {
		s.Tuples[k] += c
	}
}

// Driver runs a Builder over the sentences of a document.
type Driver struct {
	builder *Builder
	logger  *slog.Logger
}

func NewDriver(b *Builder, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{builder: b, logger: logger}
}

// Results returns the relations of each sentence in input order, stamped with
// its 0-based sentence index.
func (d *Driver) Results(graphs []*graph.Graph) []*relation.Result {
	results := make([]*relation.Result, len(graphs))
	for i, g := range graphs {
		r := d.builder.Build(g)
		r.SetSentence(i)
		results[i] = r
	}
	return results
}

// Run extracts the relations of each sentence and writes them to sinks,
// sentence by sentence and, inside a sentence, kind by kind.
func (d *Driver) Run(graphs []*graph.Graph, sinks relation.Sinks) (Summary, error) {
	sum := Summary{Tuples: map[relation.Kind]int{}}

	for i, g := range graphs {
		r := d.builder.Build(g)
		r.SetSentence(i)

		if err := sinks.Emit(r); err != nil {
			return sum, fmt.Errorf("sentence %d: %w", i, err)
		}

		sum.Sentences++
		if r.Len() > 0 {
			sum.Productive++
		}
		for _, k := range relation.Kinds() {
			sum.Tuples[k] += len(r.Tuples(k))
		}

		d.logger.Debug("sentence extracted", "sentence", i, "tuples", r.Len())
	}

	return sum, nil
}
