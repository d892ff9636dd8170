package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const envPath = ".env"

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fprintErr(ui.Err, fmt.Errorf("load %s: %w", envPath, err))
		os.Exit(1)
	}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "svorel: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "svorel",
		Usage:                "extract subject, verb and object relations from dependency parsed text",
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"SVOREL_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "extract the relations of documents into the S, V, O, SV, VO and SO streams",
				ArgsUsage: "<file or dir>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output root directory"},
					&cli.StringFlag{Name: "scheme", Usage: "label scheme (universal-chinese, hanlp)"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of documents processed in parallel"},
					&cli.StringFlag{Name: "tuple-db", Usage: "SQLite file receiving every tuple"},
					&cli.StringFlag{Name: "metrics-file", Usage: "Prometheus textfile written after the run"},
					&cli.BoolFlag{Name: "no-progress", Usage: "do not show the progress bar"},
				},
				Action: func(c *cli.Context) error {
					return extractCommand(c, ui)
				},
			},
			{
				Name:      "doc",
				Usage:     "list the docs of a repository, or show the relations of one doc",
				ArgsUsage: "[doc id]",
				Flags: append(docPathFlags(),
					&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "only docs with a label containing this"},
					&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: "first sentence"},
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: -1, Usage: "number of sentences, -1 for all"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "all", Usage: "all, pairs, aggr or json"},
					&cli.BoolFlag{Name: "productive", Aliases: []string{"p"}, Usage: "only sentences with relations"},
				),
				Action: func(c *cli.Context) error {
					return docCommand(c, ui)
				},
			},
			{
				Name:      "sentence",
				Usage:     "show the token table and the relations of a sentence",
				ArgsUsage: "<doc id> <sentence index>",
				Flags:     docPathFlags(),
				Action: func(c *cli.Context) error {
					return sentenceCommand(c, ui)
				},
			},
			{
				Name:      "import-doc",
				Usage:     "import a directory of JSON docs into a SQLite doc repository",
				ArgsUsage: "<json dir> <sqlite file>",
				Action: func(c *cli.Context) error {
					return importDocCommand(c, ui)
				},
			},
			{
				Name:      "stat",
				Usage:     "show sentence and relation statistics of a doc",
				ArgsUsage: "<doc id>",
				Flags: append(docPathFlags(),
					&cli.IntFlag{Name: "top", Aliases: []string{"t"}, Value: 5, Usage: "most frequent tuples shown per kind"},
				),
				Action: func(c *cli.Context) error {
					return statCommand(c, ui)
				},
			},
			{
				Name:      "tuples",
				Usage:     "list the runs of a tuple database, or show the tuples of one doc",
				ArgsUsage: "[doc]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tuple-db", Usage: "SQLite file written by extract --tuple-db", Required: true},
					&cli.StringFlag{Name: "run", Aliases: []string{"r"}, Usage: "run id, the latest when empty"},
				},
				Action: func(c *cli.Context) error {
					return tuplesCommand(c, ui)
				},
			},
			{
				Name:  "repl",
				Usage: "search the relations of a doc repository interactively",
				Flags: append(docPathFlags(),
					&cli.BoolFlag{Name: "no-color", Usage: "disable colors"},
					&cli.BoolFlag{Name: "no-prefix", Usage: "do not prefix sentences with their doc"},
					&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "load only docs with a label containing this"},
				),
				Action: func(c *cli.Context) error {
					return replCommand(c, ui)
				},
			},
			{
				Name:  "bash",
				Usage: "print the bash completion script",
				Action: func(c *cli.Context) error {
					return bashCommand(ui)
				},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}

func docPathFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "doc-path",
			Aliases:  []string{"d"},
			Usage:    "doc repository, a directory of JSON docs or a SQLite file",
			EnvVars:  []string{"SVOREL_DOC_PATH"},
			Required: true,
		},
	}
}
