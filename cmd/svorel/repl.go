package main

import (
	"io"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/query"
	"github.com/revelaction/svorel/render"
	"github.com/revelaction/svorel/storage"
)

func replCommand(c *cli.Context, ui UI) error {
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

	if pl, ok := repo.(storage.Preloader); ok {
		if err := preload(pl, c.StringSlice("label"), ui.Out); err != nil {
			return err
		}
	}

	b, err := cfg.Builder(nil)
	if err != nil {
		return err
	}

	r := render.NewCLIRenderer(ui.Out)
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = !c.Bool("no-prefix")

	h := query.NewHandler(repo, extract.NewDriver(b, nil), sentenceOptions(cfg), r, ui.Out)
	h.Separator = cfg.Separator
	return h.Run()
}

// preload loads the docs of a repository that supports it, showing a
// progress bar on out.
func preload(pl storage.Preloader, labels []string, out io.Writer) error {
	progress := uiprogress.New()
	progress.SetOut(out)
	progress.Start()
	defer progress.Stop()

	var bar *uiprogress.Bar
	return pl.Preload(labels, func(current, total int, name string) {
		if bar == nil {
			bar = progress.AddBar(total)
			bar.AppendCompleted()
			bar.PrependElapsed()
		}
		_ = bar.Set(current)
	})
}
