package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/stat"
)

func statCommand(c *cli.Context, ui UI) error {
	docId, err := intArg(c, 0, "doc id")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p := &Pool{}
	defer p.Close()
	repo, err := NewDocRepository(p, c.String("doc-path"))
	if err != nil {
		return err
	}

	doc, err := repo.Read(docId)
	if err != nil {
		return err
	}

	graphs, err := doc.Graphs(sentenceOptions(cfg))
	if err != nil {
		return fmt.Errorf("doc %d: %w", docId, err)
	}

	b, err := cfg.Builder(nil)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	hdl.Aggregate(graphs, extract.NewDriver(b, nil).Results(graphs))

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Num sentences %d, num tokens per sentence %d, productive %d\n", stats.NumSentences, stats.TokensPerSentenceMean, stats.NumProductive)

	for _, k := range relation.Kinds() {
		fmt.Fprintf(ui.Out, "%-2s %6d", k, stats.Tuples[k])
		for _, cnt := range hdl.Top(k, c.Int("top")) {
			fmt.Fprintf(ui.Out, "  %s(%d)", cnt.Text, cnt.N)
		}
		fmt.Fprintln(ui.Out)
	}

	return nil
}
