package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/storage/filesystem"
	"github.com/revelaction/svorel/storage/sqlite/zombiezen"
)

func importDocCommand(c *cli.Context, ui UI) error {
	if c.Args().Len() != 2 {
		return errors.New("import-doc needs a source directory and a target SQLite file")
	}
	from, to := c.Args().Get(0), c.Args().Get(1)

	src, err := filesystem.NewDocStore(from)
	if err != nil {
		return err
	}

	p := &Pool{}
	pool, err := p.Open(to, zombiezen.DocsSchema)
	if err != nil {
		return fmt.Errorf("failed to create docs table: %w", err)
	}
	defer p.Close()

	dst := zombiezen.NewDocStore(pool)

	fmt.Fprintf(ui.Out, "Reading docs from %s...\n", from)
	docs, err := src.List("")
	if err != nil {
		return err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(docs))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count := 0
	for _, docMeta := range docs {
		doc, err := src.Read(docMeta.Id)
		if err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to read doc %s: %w", docMeta.Title, err)
		}

		if err := dst.Write(doc); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to write doc %s: %w", docMeta.Title, err)
		}
		count++
		bar.Incr()
	}
	uiprogress.Stop()

	fmt.Fprintf(ui.Out, "Successfully imported %d docs from %s to %s\n", count, from, to)
	return nil
}
