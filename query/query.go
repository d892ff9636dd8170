package query

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/render"
	sent "github.com/revelaction/svorel/sentence"
	"github.com/revelaction/svorel/storage"
)

const (
	// labelPrefix is the character in the prompt that prefixes a doc label
	labelPrefix = "#"
)

// Query selects the sentences having a tuple that contains Word.
type Query struct {
	// Kinds restricts the search. Empty means all kinds.
	Kinds []relation.Kind

	// Label restricts the search to docs with a label containing it.
	Label string

	Word string
}

// Parse reads "[#label] [KIND...] word". Kinds are the short names S, V, O,
// SV, VO and SO; the last token is the word even when it names a kind.
func Parse(in string) (Query, error) {
	q := Query{}
	tokens := strings.Fields(in)

	if len(tokens) == 0 {
		return q, errors.New("empty query")
	}

	if strings.HasPrefix(tokens[0], labelPrefix) {
		q.Label = strings.TrimPrefix(tokens[0], labelPrefix)
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return q, errors.New("no word given")
	}

	// the last token is always the word, so kind names can be searched
	last := len(tokens) - 1
	for _, tok := range tokens[:last] {
		k, err := relation.ParseKind(tok)
		if err != nil {
			return q, err
		}
		q.Kinds = append(q.Kinds, k)
	}

	q.Word = tokens[last]
	return q, nil
}

func (q Query) kinds() []relation.Kind {
	if len(q.Kinds) == 0 {
		return relation.Kinds()
	}
	return q.Kinds
}

func (q Query) match(r *relation.Result) bool {
	for _, k := range q.kinds() {
		for _, t := range r.Tuples(k) {
			if t.Left == q.Word || t.Right == q.Word {
				return true
			}
		}
	}
	return false
}

type Handler struct {
	DocRepo  storage.DocReader
	Driver   *extract.Driver
	Options  sent.Options
	Renderer *render.CLIRenderer

	// Separator joins the tokens of a rendered sentence.
	Separator string

	Out io.Writer

	// cache holds the sentence results of each read doc
	cache map[int][]*render.SentenceResult
}

func NewHandler(dr storage.DocReader, d *extract.Driver, opts sent.Options, r *render.CLIRenderer, out io.Writer) *Handler {
	return &Handler{
		DocRepo:  dr,
		Driver:   d,
		Options:  opts,
		Renderer: r,
		Out:      out,
		cache:    map[int][]*render.SentenceResult{},
	}
}

// Search extracts the relations of the matching docs and returns the
// sentences that satisfy q, ordered by doc and sentence.
func (h *Handler) Search(q Query) ([]*render.SentenceResult, error) {
	docList, err := h.DocRepo.List(q.Label)
	if err != nil {
		return nil, fmt.Errorf("listing docs: %w", err)
	}

	var results []*render.SentenceResult
	for _, d := range docList {
		h.Renderer.AddDocName(d.Id, d.Title)

		srs, err := h.sentences(d.Id)
		if err != nil {
			return nil, err
		}

		for _, sr := range srs {
			if q.match(sr.Result) {
				results = append(results, sr)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DocId != results[j].DocId {
			return results[i].DocId < results[j].DocId
		}
		return results[i].Sentence < results[j].Sentence
	})

	return results, nil
}

func (h *Handler) sentences(docId int) ([]*render.SentenceResult, error) {
	if srs, ok := h.cache[docId]; ok {
		return srs, nil
	}

	doc, err := h.DocRepo.Read(docId)
	if err != nil {
		return nil, fmt.Errorf("reading doc %d: %w", docId, err)
	}

	graphs, err := doc.Graphs(h.Options)
	if err != nil {
		return nil, fmt.Errorf("doc %d: %w", docId, err)
	}

	srs := render.NewSentenceResults(docId, graphs, h.Driver.Results(graphs), h.Separator)
	h.cache[docId] = srs
	return srs, nil
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	labels, err := h.DocRepo.Labels("")
	if err != nil {
		return err
	}

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(labels),
			prompt.OptionTitle("svorel repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if in == "quit" {
			return nil
		}

		history = append(history, in)

		q, err := Parse(in)
		if err != nil {
			continue
		}

		results, err := h.Search(q)
		if err != nil {
			fmt.Fprintf(h.Out, "Error: %v\n", err)
			continue
		}

		h.Renderer.Render(results)
	}
}

func (h *Handler) completer(labels []string) func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return Suggest(in.TextBeforeCursor(), labels)
	}
}

// Suggest completes the word before the cursor with labels (after "#") or
// kind names.
func Suggest(befCursor string, labels []string) []prompt.Suggest {
	s := []prompt.Suggest{}

	if befCursor == "" || strings.HasSuffix(befCursor, " ") {
		return s
	}

	tokens := strings.Fields(befCursor)
	last := tokens[len(tokens)-1]

	if len(tokens) == 1 && strings.HasPrefix(last, labelPrefix) {
		pattern := strings.TrimPrefix(last, labelPrefix)
		for _, l := range labels {
			if strings.HasPrefix(l, pattern) {
				s = append(s, prompt.Suggest{Text: labelPrefix + l, Description: "🔖 label"})
			}
		}
		return s
	}

	for _, k := range relation.Kinds() {
		if strings.HasPrefix(k.String(), last) {
			s = append(s, prompt.Suggest{Text: k.String(), Description: "kind"})
		}
	}

	return s
}
