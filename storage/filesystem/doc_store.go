package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/svorel/sentence"
	"github.com/revelaction/svorel/storage"
)

// DocStore is a directory of JSON docs. The Id of a doc is its position in
// the sorted directory listing.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []sent.Doc
	loaded []bool

	// labeled is kept when Preload drops the tokens of a doc
	labeled []bool
}

var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore creates a filesystem document handler.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(files))

	idx := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		docs = append(docs, sent.Doc{
			Id:    idx,
			Title: file.Name(),
		})
		idx++
	}

	return &DocStore{
		docDir:  docDir,
		docs:    docs,
		loaded:  make([]bool, len(docs)),
		labeled: make([]bool, len(docs)),
	}, nil
}

func (h *DocStore) load(i int) error {
	if h.loaded[i] {
		return nil
	}

	doc := &h.docs[i]
	full, err := ReadDoc(filepath.Join(h.docDir, doc.Title))
	if err != nil {
		return err
	}

	// Title and Id come from the listing
	doc.Tokens = full.Tokens
	doc.Labels = full.Labels
	h.loaded[i] = true
	h.labeled[i] = true
	return nil
}

func (h *DocStore) labels(i int) ([]string, error) {
	if !h.labeled[i] {
		if err := h.load(i); err != nil {
			return nil, err
		}
	}
	return h.docs[i].Labels, nil
}

// Preload loads the docs having any of labels into memory, all docs when
// labels is empty.
func (h *DocStore) Preload(labels []string, cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i+1, total, h.docs[i].Title)
		}

		if err := h.load(i); err != nil {
			return err
		}
	}

	if len(labels) == 0 {
		return nil
	}

	for i := range h.docs {
		if !hasAnyLabel(h.docs[i].Labels, labels) {
			h.docs[i].Tokens = nil
			h.loaded[i] = false
		}
	}
	return nil
}

// hasAnyLabel matches labels the way List does: a doc label containing l.
func hasAnyLabel(docLabels, labels []string) bool {
	for _, l := range labels {
		if containsLabel(docLabels, l) {
			return true
		}
	}
	return false
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	var docs []sent.Doc
	for i := range h.docs {
		labels, err := h.labels(i)
		if err != nil {
			return nil, err
		}
		if labelMatch != "" && !containsLabel(labels, labelMatch) {
			continue
		}

		d := h.docs[i]
		docs = append(docs, sent.Doc{Id: d.Id, Title: d.Title, Labels: d.Labels})
	}
	return docs, nil
}

func containsLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc id out of range: %d", id)
	}
	if err := h.load(id); err != nil {
		return sent.Doc{}, err
	}
	return h.docs[id], nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	seen := map[string]bool{}
	for i := range h.docs {
		docLabels, err := h.labels(i)
		if err != nil {
			return nil, err
		}
		for _, l := range docLabels {
			if pattern == "" || strings.Contains(l, pattern) {
				seen[l] = true
			}
		}
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels, nil
}

// Write stores doc as <Title>.json. The doc is appended to the listing.
func (h *DocStore) Write(doc sent.Doc) error {
	name := doc.Title
	if filepath.Ext(name) != ".json" {
		name += ".json"
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid doc title %q", doc.Title)
	}

	for _, d := range h.docs {
		if d.Title == name {
			return fmt.Errorf("doc %s already exists", name)
		}
	}

	doc.Title = name
	doc.Id = len(h.docs)

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(h.docDir, name), b, 0o644); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}

	h.docs = append(h.docs, doc)
	h.loaded = append(h.loaded, true)
	h.labeled = append(h.labeled, true)
	return nil
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
