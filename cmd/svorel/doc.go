package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/render"
	"github.com/revelaction/svorel/storage"
)

func docCommand(c *cli.Context, ui UI) error {
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

	if c.Args().Len() == 0 {
		return listDocs(repo, c.String("label"), ui)
	}

	id, err := intArg(c, 0, "doc id")
	if err != nil {
		return err
	}

	doc, err := repo.Read(id)
	if err != nil {
		return err
	}

	graphs, err := doc.Graphs(sentenceOptions(cfg))
	if err != nil {
		return fmt.Errorf("doc %d: %w", id, err)
	}

	b, err := cfg.Builder(nil)
	if err != nil {
		return err
	}

	results := render.NewSentenceResults(doc.Id, graphs, extract.NewDriver(b, nil).Results(graphs), cfg.Separator)

	start := c.Int("start")
	if start < 0 {
		start = 0
	}
	if start >= len(results) {
		return nil
	}
	results = results[start:]
	if count := c.Int("count"); count >= 0 && count < len(results) {
		results = results[:count]
	}

	var r render.Renderer
	if c.String("format") == "json" {
		r = render.NewJSONRenderer(ui.Out)
	} else {
		cr := render.NewCLIRenderer(ui.Out)
		cr.Format = c.String("format")
		cr.Productive = c.Bool("productive")
		r = cr
	}

	r.Render(results)
	return nil
}

func listDocs(repo storage.DocReader, label string, ui UI) error {
	docs, err := repo.List(label)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(ui.Out, "📖 %d %s %s\n", doc.Id, doc.Title, strings.Join(doc.Labels, ","))
	}
	return nil
}
