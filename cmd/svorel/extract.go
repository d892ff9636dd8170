package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/batch"
	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/metrics"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/sink"
	"github.com/revelaction/svorel/storage"
	"github.com/revelaction/svorel/storage/sqlite/zombiezen"
)

func extractCommand(c *cli.Context, ui UI) error {
	if c.Args().Len() == 0 {
		return errors.New("no input files given")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.IsSet("out") {
		cfg.Output.Dir = c.String("out")
	}
	if c.IsSet("scheme") {
		cfg.Scheme = c.String("scheme")
		cfg.Labels = nil
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("tuple-db") {
		cfg.Output.TupleDB = c.String("tuple-db")
	}
	if c.IsSet("metrics-file") {
		cfg.Output.MetricsFile = c.String("metrics-file")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, ui)
	if err != nil {
		return err
	}
	defer closer.Close()

	paths, err := batch.Inputs(c.Args().Slice())
	if err != nil {
		return err
	}

	b, err := cfg.Builder(logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	r := &batch.Runner{
		Loader:  cfg.Loader(),
		Driver:  extract.NewDriver(b, logger),
		Out:     sink.Dir{Root: cfg.Output.Dir},
		Run:     storage.NewRun(b.Scheme().Name),
		Metrics: m,
		Workers: cfg.Workers,
		Logger:  logger,
	}

	if cfg.Output.TupleDB != "" {
		p := &Pool{}
		pool, err := p.Open(cfg.Output.TupleDB, zombiezen.TuplesSchema)
		if err != nil {
			return err
		}
		defer p.Close()
		r.Store = zombiezen.NewTupleStore(pool)
	}

	if !c.Bool("no-progress") {
		uiprogress.Start()
		bar := uiprogress.AddBar(len(paths))
		bar.AppendCompleted()
		bar.PrependElapsed()
		r.Progress = func(done, total int, path string) {
			bar.Incr()
		}
	}

	report, err := r.Execute(c.Context, paths)
	if !c.Bool("no-progress") {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "📦 run %s: %d documents, %d sentences, %d productive\n",
		report.RunId, report.Documents, report.Summary.Sentences, report.Summary.Productive)
	for _, k := range relation.Kinds() {
		fmt.Fprintf(ui.Out, "   %-2s %d\n", k, report.Summary.Tuples[k])
	}

	for _, f := range report.Failed {
		fmt.Fprintf(ui.Err, "❌ %s: %v\n", f.Path, f.Err)
	}

	if cfg.Output.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return err
		}
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(report.Failed), report.Documents)
	}
	return nil
}
