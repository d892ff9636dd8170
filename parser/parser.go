// Package parser turns raw text and parsed files into sentence graphs.
package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/revelaction/svorel/conll"
	"github.com/revelaction/svorel/graph"
)

// ErrNoParser is returned when raw text is loaded without a configured
// parser.
var ErrNoParser = errors.New("no parser configured")

// Parser parses the text of one document into sentence graphs.
type Parser interface {
	Parse(ctx context.Context, text string) ([]*graph.Graph, error)
}

// ParserFunc adapts a function to a Parser.
type ParserFunc func(ctx context.Context, text string) ([]*graph.Graph, error)

func (f ParserFunc) Parse(ctx context.Context, text string) ([]*graph.Graph, error) {
	return f(ctx, text)
}

// Command runs an external dependency parser once per document. The text
// is written on stdin; the parser must print CoNLL on stdout.
type Command struct {
	Path string
	Args []string

	// Options drives the conversion of the parser output.
	Options conll.Options
}

var _ Parser = (*Command)(nil)

func (c *Command) Parse(ctx context.Context, text string) ([]*graph.Graph, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run parser %s: %w: %s", c.Path, err, lastLine(stderr.String()))
	}

	graphs, err := conll.ReadAll(&stdout, c.Options)
	if err != nil {
		return nil, fmt.Errorf("read parser output: %w", err)
	}
	return graphs, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var stripper = strings.NewReplacer(" ", "", "\r", "", "\n", "")

// Preprocess prepares Chinese text for the parser: literal spaces and line
// breaks are removed, and with normalize the text is put in Unicode NFC.
func Preprocess(raw string, normalize bool) string {
	if normalize {
		raw = norm.NFC.String(raw)
	}
	return stripper.Replace(raw)
}
