package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/svorel/conll"
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/sentence"
)

// Loader picks the adapter for an input file:
//
//	.conllu, .conll  read as CoNLL
//	.json            a spaCy/stanza sentence.Doc
//	anything else    raw text, preprocessed and sent to Parser
type Loader struct {
	Parser    Parser
	Normalize bool

	Conll    conll.Options
	Sentence sentence.Options
}

func (l *Loader) loadDoc(path string) ([]*graph.Graph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc sentence.Doc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return doc.Graphs(l.Sentence)
}

// File extensions recognized by the Loader.
const (
	ExtCoNLLU = ".conllu"
	ExtCoNLL  = ".conll"
	ExtJSON   = ".json"
)

// IsParsed reports whether the file at path holds an already parsed document.
func IsParsed(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCoNLLU, ExtCoNLL, ExtJSON:
		return true
	}
	return false
}

// Base returns the file name of path. The output files of a document carry
// the same name.
func Base(path string) string {
	return filepath.Base(path)
}

// Load reads the file at path with the adapter matching its extension.
func (l *Loader) Load(ctx context.Context, path string) ([]*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCoNLLU, ExtCoNLL:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return conll.ReadAll(f, l.Conll)

	case ExtJSON:
		return l.loadDoc(path)
	}

	if l.Parser == nil {
		return nil, ErrNoParser
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return l.Parser.Parse(ctx, Preprocess(string(b), l.Normalize))
}
