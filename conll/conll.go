// Package conll reads dependency-parsed sentences in the CoNLL-X and CoNLL-U
// tabular formats and converts them to graphs.
//
// Sentences are separated by blank lines. Comment lines (#), multiword token
// ranges (1-2) and empty nodes (1.1) are skipped.
package conll

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revelaction/svorel/graph"
)

const (
	fieldSeparator = "\t"
	depsSeparator  = "|"
	empty          = "_"

	// ID FORM LEMMA CPOS/UPOS POS/XPOS FEATS HEAD DEPREL
	minFields = 8
)

// Dep is one entry of the enhanced DEPS column.
type Dep struct {
	Head int
	Rel  string
}

// Row is one word line.
type Row struct {
	ID     int
	Form   string
	Lemma  string
	UPos   string
	XPos   string
	Feats  string
	Head   int
	DepRel string
	Deps   []Dep
}

// Pos returns the language specific tag, or the universal one when the
// former is missing.
func (r Row) Pos() string {
	if r.XPos != "" {
		return r.XPos
	}
	return r.UPos
}

// Options controls the conversion of rows to graph tokens and edges.
type Options struct {
	// UseLemma renders tokens by lemma instead of surface form.
	UseLemma bool

	// Enhanced takes the edges from the DEPS column when it is filled.
	Enhanced bool
}

func field(s string) string {
	if s == empty {
		return ""
	}
	return s
}

// ParseRow parses one word line. skip is true for lines that carry no
// syntactic word: multiword ranges and empty nodes.
func ParseRow(line string) (row Row, skip bool, err error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < minFields {
		fields = strings.Fields(line)
	}
	if len(fields) < minFields {
		return row, false, fmt.Errorf("expected at least %d fields, got %d", minFields, len(fields))
	}

	if strings.ContainsAny(fields[0], "-.") {
		return row, true, nil
	}

	row.ID, err = strconv.Atoi(fields[0])
	if err != nil {
		return row, false, fmt.Errorf("error parsing ID field (%s): %w", fields[0], err)
	}

	row.Form = fields[1]
	row.Lemma = field(fields[2])
	row.UPos = field(fields[3])
	row.XPos = field(fields[4])
	row.Feats = field(fields[5])

	if h := field(fields[6]); h != "" {
		row.Head, err = strconv.Atoi(h)
		if err != nil {
			return row, false, fmt.Errorf("error parsing HEAD field (%s): %w", fields[6], err)
		}
	}

	row.DepRel = field(fields[7])

	// CoNLL-X carries the projective head here, not DEPS
	if len(fields) > 8 && strings.Contains(fields[8], ":") {
		row.Deps, err = ParseDeps(fields[8])
		if err != nil {
			return row, false, err
		}
	}

	return row, false, nil
}

// ParseDeps parses an enhanced DEPS value such as "2:nsubj|4:conj". Entries
// pointing to empty nodes are dropped.
func ParseDeps(s string) ([]Dep, error) {
	if s == "" {
		return nil, nil
	}

	var deps []Dep
	for _, entry := range strings.Split(s, depsSeparator) {
		h, rel, ok := strings.Cut(entry, ":")
		if !ok || rel == "" {
			return nil, fmt.Errorf("malformed DEPS entry %q", entry)
		}
		if strings.Contains(h, ".") {
			continue
		}
		head, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("error parsing DEPS head (%s): %w", h, err)
		}
		deps = append(deps, Dep{Head: head, Rel: rel})
	}
	return deps, nil
}

// Reader reads sentences from a CoNLL stream.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: s}
}

// Next returns the rows of the next sentence, or io.EOF when the stream is
// exhausted.
func (r *Reader) Next() ([]Row, error) {
	var rows []Row

	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if len(rows) > 0 {
				return rows, nil
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		row, skip, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		if skip {
			continue
		}
		rows = append(rows, row)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		return rows, nil
	}

	return nil, io.EOF
}

// Graph converts the rows of one sentence. Head 0 marks the root and yields
// no edge.
func Graph(rows []Row, opts Options) (*graph.Graph, error) {
	tokens := make([]graph.Token, len(rows))
	for i, row := range rows {
		form := row.Form
		if opts.UseLemma && row.Lemma != "" {
			form = row.Lemma
		}
		tokens[i] = graph.Token{Index: row.ID, Form: form, Pos: row.Pos()}
	}

	byIndex := make(map[int]graph.Token, len(tokens))
	for _, t := range tokens {
		byIndex[t.Index] = t
	}

	var edges []graph.Edge
	add := func(head int, rel string, dep graph.Token) error {
		if head == 0 {
			return nil
		}
		gov, ok := byIndex[head]
		if !ok {
			return fmt.Errorf("token %d: head %d: %w", dep.Index, head, graph.ErrNotFound)
		}
		edges = append(edges, graph.Edge{Governor: gov, Dependent: dep, Label: graph.Label(rel)})
		return nil
	}

	for i, row := range rows {
		if opts.Enhanced && len(row.Deps) > 0 {
			for _, d := range row.Deps {
				if err := add(d.Head, d.Rel, tokens[i]); err != nil {
					return nil, err
				}
			}
			continue
		}

		if err := add(row.Head, row.DepRel, tokens[i]); err != nil {
			return nil, err
		}
	}

	return graph.New(tokens, edges)
}

// ReadAll reads every sentence of r as a graph.
func ReadAll(r io.Reader, opts Options) ([]*graph.Graph, error) {
	var graphs []*graph.Graph

	reader := NewReader(r)
	for {
		rows, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return graphs, nil
		}
		if err != nil {
			return nil, err
		}

		g, err := Graph(rows, opts)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", len(graphs), err)
		}
		graphs = append(graphs, g)
	}
}
