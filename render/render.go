package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/relation"
)

const (
	Defaultformat = "all"
)

var (
	Teal      = "\033[1;36m"
	Gray      = "\033[0;37m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

var kindColors = map[relation.Kind]string{
	relation.Subject:       Green256,
	relation.Verb:          Yellow256,
	relation.Object:        Teal,
	relation.SubjectVerb:   Gray,
	relation.VerbObject:    Gray,
	relation.SubjectObject: Gray,
}

func SupportedFormats() []string {
	return []string{"all", "pairs", "aggr"}
}

// SentenceResult is a sentence with the relations extracted from it.
type SentenceResult struct {
	DocId    int              `json:"doc_id"`
	Sentence int              `json:"sentence"`
	Text     string           `json:"text"`
	Result   *relation.Result `json:"relations"`
}

// NewSentenceResults pairs graphs[i] with results[i]. The text of a sentence
// is its token forms joined by sep.
func NewSentenceResults(docId int, graphs []*graph.Graph, results []*relation.Result, sep string) []*SentenceResult {
	srs := make([]*SentenceResult, 0, len(results))
	for i, r := range results {
		forms := make([]string, 0, graphs[i].Len())
		for _, t := range graphs[i].Tokens() {
			forms = append(forms, t.Form)
		}
		srs = append(srs, &SentenceResult{
			DocId:    docId,
			Sentence: r.Sentence,
			Text:     strings.Join(forms, sep),
			Result:   r,
		})
	}
	return srs
}

// Renderer presents sentence results.
type Renderer interface {
	Render(results []*SentenceResult)
}

// CLIRenderer writes sentence results for a terminal.
type CLIRenderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines what is printed
	//
	// all: the sentence followed by one line per non empty kind
	// pairs: one line per sentence with its pairwise tuples
	// aggr: the pairwise tuples of all sentences, by frequency
	Format string

	// Productive shows only sentences with at least one tuple.
	Productive bool

	DocNames map[int]string
}

var _ Renderer = (*CLIRenderer)(nil)

func NewCLIRenderer(w io.Writer) *CLIRenderer {
	return &CLIRenderer{W: w, Format: Defaultformat, DocNames: map[int]string{}}
}

func (r *CLIRenderer) AddDocName(docId int, name string) {
	r.DocNames[docId] = name
}

func (r *CLIRenderer) Render(results []*SentenceResult) {
	aggregated := map[string]int{}

	for _, sr := range results {
		if r.Productive && sr.Result.Len() == 0 {
			continue
		}

		switch r.Format {
		case "pairs":
			fmt.Fprintf(r.W, "%s%s\n", r.prefix(sr), r.pairs(sr.Result))
		case "aggr":
			for _, k := range relation.Kinds() {
				if !k.Pairwise() {
					continue
				}
				for _, s := range sr.Result.Strings(k) {
					aggregated[k.String()+" "+s]++
				}
			}
		default:
			fmt.Fprintf(r.W, "%s%s\n", r.prefix(sr), sr.Text)
			for _, k := range relation.Kinds() {
				ss := sr.Result.Strings(k)
				if len(ss) == 0 {
					continue
				}
				fmt.Fprintf(r.W, "    %s %s\n", r.kind(k), strings.Join(ss, " "))
			}
		}
	}

	if r.Format == "aggr" {
		r.aggregated(aggregated)
	}
}

func (r *CLIRenderer) pairs(res *relation.Result) string {
	var parts []string
	for _, k := range relation.Kinds() {
		if !k.Pairwise() {
			continue
		}
		for _, s := range res.Strings(k) {
			parts = append(parts, r.kind(k)+" "+s)
		}
	}
	return strings.Join(parts, " | ")
}

func (r *CLIRenderer) kind(k relation.Kind) string {
	name := fmt.Sprintf("%-2s", k)
	if !r.HasColor {
		return name
	}
	return kindColors[k] + name + Off
}

func (r *CLIRenderer) prefix(sr *SentenceResult) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("[%s %2d %5d:%2d] ✍  ", r.title(sr.DocId), sr.DocId, sr.Sentence, sr.Result.Len())
}

func (r *CLIRenderer) title(docId int) string {
	title := []rune(r.DocNames[docId])
	var part string
	if len(title) <= 20 {
		part = fmt.Sprintf("%-20s", string(title))
	} else {
		part = string(title[:20])
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Format option to a different one, following the
// SupportedFormats() order.
func (r *CLIRenderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}
	r.Format = supported[0]
}

func (r *CLIRenderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}

func (r *CLIRenderer) aggregated(agg map[string]int) {
	// flatten map to use sortSlice
	sl := []struct {
		Num   int
		Tuple string
	}{}

	for tuple, n := range agg {
		sl = append(sl, struct {
			Num   int
			Tuple string
		}{n, tuple})
	}

	sort.SliceStable(sl, func(i, j int) bool {
		if sl[i].Num != sl[j].Num {
			return sl[i].Num > sl[j].Num
		}
		return sl[i].Tuple < sl[j].Tuple
	})

	var prefix string
	for _, s := range sl {
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%5d] ✍  ", s.Num)
		}

		fmt.Fprintf(r.W, "%s%s\n", prefix, s.Tuple)
	}
}
