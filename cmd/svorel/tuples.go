package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/storage"
	"github.com/revelaction/svorel/storage/sqlite/zombiezen"
)

// tuplesCommand reads back a tuple database written by extract. Without a doc
// argument it lists the runs with their counts per kind; with one it prints
// the tuples of that doc in the selected run (the latest by default).
func tuplesCommand(c *cli.Context, ui UI) error {
	path := c.String("tuple-db")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("tuple database not found: %s", path)
	}

	p := &Pool{}
	pool, err := p.Open(path)
	if err != nil {
		return err
	}
	defer p.Close()

	store := zombiezen.NewTupleStore(pool)

	if c.Args().Len() == 0 {
		return listRuns(store, ui)
	}

	runId := c.String("run")
	if runId == "" {
		runs, err := store.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.New("no runs in tuple database")
		}
		runId = runs[0].Id
	}

	doc := c.Args().Get(0)
	for _, k := range relation.Kinds() {
		tuples, err := store.Tuples(runId, doc, k)
		if err != nil {
			return err
		}

		ss := make([]string, len(tuples))
		for i, t := range tuples {
			ss[i] = t.String()
		}
		fmt.Fprintf(ui.Out, "%-2s %s\n", k, strings.Join(ss, " "))
	}
	return nil
}

func listRuns(store storage.TupleReader, ui UI) error {
	runs, err := store.Runs()
	if err != nil {
		return err
	}

	for _, run := range runs {
		counts, err := store.Counts(run.Id)
		if err != nil {
			return err
		}

		fmt.Fprintf(ui.Out, "🏃 %s %s %s", run.Id, run.Started.Format("2006-01-02T15:04:05Z"), run.Scheme)
		for _, k := range relation.Kinds() {
			fmt.Fprintf(ui.Out, " %s:%d", k, counts[k])
		}
		fmt.Fprintln(ui.Out)
	}
	return nil
}
