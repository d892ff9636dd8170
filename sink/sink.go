// Package sink writes relation tuples to the per-document output files and
// to in-memory buffers.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/svorel/relation"
)

// tupleSeparator follows every tuple, the last one included.
const tupleSeparator = " "

// writer renders tuples onto a buffered file.
type writer struct {
	f *os.File
	w *bufio.Writer
}

func (w *writer) Write(t relation.Tuple) error {
	_, err := w.w.WriteString(t.String() + tupleSeparator)
	return err
}

var _ relation.Sink = (*writer)(nil)

// Dir is an output root with one subdirectory per relation kind.
type Dir struct {
	Root string
}

// Mkdir creates the root and its six kind directories.
func (d Dir) Mkdir() error {
	for _, k := range relation.Kinds() {
		if err := os.MkdirAll(d.kindDir(k), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (d Dir) kindDir(k relation.Kind) string {
	return filepath.Join(d.Root, k.String())
}

// Path returns the output file of kind k for the document base.
func (d Dir) Path(k relation.Kind, base string) string {
	return filepath.Join(d.kindDir(k), base)
}

// Files are the six open output files of one document.
type Files struct {
	writers map[relation.Kind]*writer
}

// Create truncates or creates the six output files of the document base.
// The kind directories must exist.
func (d Dir) Create(base string) (*Files, error) {
	fs := &Files{writers: map[relation.Kind]*writer{}}

	for _, k := range relation.Kinds() {
		f, err := os.Create(d.Path(k, base))
		if err != nil {
			fs.Close()
			return nil, err
		}
		fs.writers[k] = &writer{f: f, w: bufio.NewWriter(f)}
	}

	return fs, nil
}

// Sinks returns the sink of each kind.
func (fs *Files) Sinks() relation.Sinks {
	return relation.Sinks{
		Subject:       fs.writers[relation.Subject],
		Verb:          fs.writers[relation.Verb],
		Object:        fs.writers[relation.Object],
		SubjectVerb:   fs.writers[relation.SubjectVerb],
		VerbObject:    fs.writers[relation.VerbObject],
		SubjectObject: fs.writers[relation.SubjectObject],
	}
}

// Close flushes and closes every file. All files are closed even when one
// fails.
func (fs *Files) Close() error {
	var errs []error
	for _, k := range relation.Kinds() {
		w, ok := fs.writers[k]
		if !ok {
			continue
		}
		if err := w.w.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", k, err))
		}
		if err := w.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", k, err))
		}
		delete(fs.writers, k)
	}
	return errors.Join(errs...)
}

// Buffer collects the rendered output of each kind in memory.
type Buffer struct {
	builders map[relation.Kind]*strings.Builder
}

func NewBuffer() *Buffer {
	b := &Buffer{builders: map[relation.Kind]*strings.Builder{}}
	for _, k := range relation.Kinds() {
		b.builders[k] = &strings.Builder{}
	}
	return b
}

// Sinks returns the sink of each kind.
func (b *Buffer) Sinks() relation.Sinks {
	sink := func(k relation.Kind) relation.Sink {
		return relation.SinkFunc(func(t relation.Tuple) error {
			_, err := b.builders[k].WriteString(t.String() + tupleSeparator)
			return err
		})
	}
	return relation.Sinks{
		Subject:       sink(relation.Subject),
		Verb:          sink(relation.Verb),
		Object:        sink(relation.Object),
		SubjectVerb:   sink(relation.SubjectVerb),
		VerbObject:    sink(relation.VerbObject),
		SubjectObject: sink(relation.SubjectObject),
	}
}

// String returns what was written to kind k.
func (b *Buffer) String(k relation.Kind) string {
	return b.builders[k].String()
}

// Tee returns sinks that write every tuple to each of sinks in turn.
func Tee(sinks ...relation.Sinks) relation.Sinks {
	tee := func(k relation.Kind) relation.Sink {
		return relation.SinkFunc(func(t relation.Tuple) error {
			for _, s := range sinks {
				if err := s.For(k).Write(t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return relation.Sinks{
		Subject:       tee(relation.Subject),
		Verb:          tee(relation.Verb),
		Object:        tee(relation.Object),
		SubjectVerb:   tee(relation.SubjectVerb),
		VerbObject:    tee(relation.VerbObject),
		SubjectObject: tee(relation.SubjectObject),
	}
}

// Collector keeps every tuple in emission order.
type Collector struct {
	Tuples []relation.Tuple
}

func (c *Collector) Write(t relation.Tuple) error {
	c.Tuples = append(c.Tuples, t)
	return nil
}

// Sinks routes every kind to the collector.
func (c *Collector) Sinks() relation.Sinks {
	return relation.Uniform(c)
}
