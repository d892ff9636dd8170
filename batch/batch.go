// Package batch extracts the relations of many documents in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/metrics"
	"github.com/revelaction/svorel/parser"
	"github.com/revelaction/svorel/sink"
	"github.com/revelaction/svorel/storage"
)

// ErrDuplicateBase is reported for a document whose output files would
// overwrite those of an earlier document.
var ErrDuplicateBase = errors.New("duplicate document name")

// Loader reads the sentence graphs of an input file.
type Loader interface {
	Load(ctx context.Context, path string) ([]*graph.Graph, error)
}

// Failure is a document that could not be processed.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a batch run.
type Report struct {
	RunId     string
	Documents int
	Failed    []Failure
	Summary   extract.Summary
}

// Runner processes documents with a bounded number of workers. Each
// document owns its output files; a failing document never stops the others.
type Runner struct {
	Loader Loader
	Driver *extract.Driver
	Out    sink.Dir

	// Store, when set, receives the tuples of every document under Run.
	Store storage.TupleWriter
	Run   storage.Run

	// Metrics is optional.
	Metrics *metrics.Metrics

	Workers int
	Logger  *slog.Logger

	// Progress is called after each document, from the worker goroutine.
	Progress func(done, total int, path string)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Execute processes paths. The returned error is only set when the run could
// not start or ctx was canceled; document errors are in the Report.
func (r *Runner) Execute(ctx context.Context, paths []string) (Report, error) {
	report := Report{RunId: r.Run.Id, Summary: extract.Summary{}}

	if err := r.Out.Mkdir(); err != nil {
		return report, fmt.Errorf("create output directories: %w", err)
	}

	if r.Store != nil {
		if err := r.Store.Start(r.Run); err != nil {
			return report, fmt.Errorf("start run: %w", err)
		}
	}

	var (
		mu   sync.Mutex
		done int
	)

	record := func(path string, sum extract.Summary, err error) {
		mu.Lock()
		defer mu.Unlock()

		done++
		report.Documents++
		if err != nil {
			report.Failed = append(report.Failed, Failure{Path: path, Err: err})
		} else {
			report.Summary.Add(sum)
		}
		if r.Progress != nil {
			r.Progress(done, len(paths), path)
		}
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	seen := map[string]bool{}
	for _, path := range paths {
		base := parser.Base(path)
		if seen[base] {
			record(path, extract.Summary{}, fmt.Errorf("%w: %s", ErrDuplicateBase, base))
			continue
		}
		seen[base] = true

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				record(path, extract.Summary{}, err)
				return nil
			}

			start := time.Now()
			sum, err := r.document(gctx, path)
			if r.Metrics != nil {
				r.Metrics.ObserveDocument(sum, time.Since(start), err)
			}
			if err != nil {
				r.logger().Error("document failed", "path", path, "err", err)
			} else {
				r.logger().Info("document done", "path", path, "sentences", sum.Sentences, "tuples", sum.Total())
			}
			record(path, sum, err)
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Path < report.Failed[j].Path })
	return report, ctx.Err()
}

func (r *Runner) document(ctx context.Context, path string) (sum extract.Summary, err error) {
	graphs, err := r.Loader.Load(ctx, path)
	if err != nil {
		return sum, fmt.Errorf("load: %w", err)
	}

	base := parser.Base(path)
	files, err := r.Out.Create(base)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := files.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sinks := files.Sinks()
	var collected sink.Collector
	if r.Store != nil {
		sinks = sink.Tee(sinks, collected.Sinks())
	}

	sum, err = r.Driver.Run(graphs, sinks)
	if err != nil {
		return sum, err
	}

	if r.Store != nil {
		if err := r.Store.WriteDoc(r.Run.Id, base, collected.Tuples); err != nil {
			return sum, fmt.Errorf("store tuples: %w", err)
		}
	}

	return sum, nil
}

// Inputs expands paths into the files to process. Directories contribute
// their regular, non hidden files, sorted by name; subdirectories are not
// walked.
func Inputs(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	return files, nil
}
