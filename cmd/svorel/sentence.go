package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/relation"
	sent "github.com/revelaction/svorel/sentence"
)

func sentenceCommand(c *cli.Context, ui UI) error {
	docId, err := intArg(c, 0, "doc id")
	if err != nil {
		return err
	}
	sentId, err := intArg(c, 1, "sentence index")
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

	if sentId < 0 || sentId >= len(doc.Tokens) {
		return fmt.Errorf("sentence index %d out of bounds (0-%d)", sentId, len(doc.Tokens)-1)
	}

	s := doc.Tokens[sentId]
	g, err := sent.Graph(s, sentenceOptions(cfg))
	if err != nil {
		return err
	}

	b, err := cfg.Builder(nil)
	if err != nil {
		return err
	}
	result := b.Build(g)

	for _, token := range s {
		fmt.Fprintf(ui.Out, "%20q %15q %8s %6d %6d %8s %s\n", token.Text, token.Lemma, token.Pos, token.Id, token.Head, token.Dep, token.Tag)
	}
	fmt.Fprintln(ui.Out)

	for _, k := range relation.Kinds() {
		fmt.Fprintf(ui.Out, "%-2s ", k)
		for _, t := range result.Strings(k) {
			fmt.Fprintf(ui.Out, "%s ", t)
		}
		fmt.Fprintln(ui.Out)
	}

	return nil
}
