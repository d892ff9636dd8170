package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/svorel/config"
	sent "github.com/revelaction/svorel/sentence"
	"github.com/revelaction/svorel/storage"
	"github.com/revelaction/svorel/storage/filesystem"
	"github.com/revelaction/svorel/storage/sqlite/zombiezen"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger writes text logs to ui.Err and, when a log file is configured,
// to a rotating file.
func newLogger(cfg config.Config, ui UI) (*slog.Logger, io.Closer, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = ui.Err
		closer io.Closer = nopCloser{}
	)

	if cfg.Log.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB, // megabytes
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays, // days
			Compress:   true,
		}
		w = io.MultiWriter(ui.Err, fileLogger)
		closer = fileLogger
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

func NewDocRepository(p *Pool, path string) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}

func sentenceOptions(cfg config.Config) sent.Options {
	return sent.Options{UseLemma: cfg.Input.UseLemma, UniversalPos: cfg.Input.UniversalPos}
}

func intArg(c *cli.Context, i int, name string) (int, error) {
	if c.Args().Len() <= i {
		return 0, fmt.Errorf("missing %s argument", name)
	}

	var n int
	if _, err := fmt.Sscanf(c.Args().Get(i), "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, c.Args().Get(i))
	}
	return n, nil
}
