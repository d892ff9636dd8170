// Package relation defines the six relation kinds extracted from a sentence
// and the per-sentence result that collects them.
package relation

import (
	"encoding/json"
	"fmt"
)

// Separator joins the two sides of a pairwise tuple.
const Separator = "-"

// Kind is one of the six relation streams.
type Kind int

const (
	Subject Kind = iota
	Verb
	Object
	SubjectVerb
	VerbObject
	SubjectObject
)

// Kinds returns all kinds in output order.
func Kinds() []Kind {
	return []Kind{Subject, Verb, Object, SubjectVerb, VerbObject, SubjectObject}
}

func (k Kind) String() string {
	switch k {
	case Subject:
		return "S"
	case Verb:
		return "V"
	case Object:
		return "O"
	case SubjectVerb:
		return "SV"
	case VerbObject:
		return "VO"
	case SubjectObject:
		return "SO"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pairwise reports whether tuples of this kind have two sides.
func (k Kind) Pairwise() bool {
	switch k {
	case SubjectVerb, VerbObject, SubjectObject:
		return true
	}
	return false
}

// ParseKind parses the short name of a kind ("S", "SV", ...).
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown relation kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tuple is a single extracted relation. Right is empty for S, V and O.
type Tuple struct {
	Kind Kind `json:"kind"`

	// Sentence is the index of the sentence inside its document.
	Sentence int `json:"sentence"`

	Left  string `json:"left"`
	Right string `json:"right,omitempty"`
}

// String renders the tuple as it is written to the output streams.
func (t Tuple) String() string {
	if t.Kind.Pairwise() {
		return t.Left + Separator + t.Right
	}
	return t.Left
}

// Result holds the tuples of one sentence, one ordered slice per kind.
type Result struct {
	Sentence int

	Subjects       []Tuple
	Verbs          []Tuple
	Objects        []Tuple
	SubjectVerbs   []Tuple
	VerbObjects    []Tuple
	SubjectObjects []Tuple

	// seen holds the pairwise tuples already emitted in this sentence
	seen map[pairKey]struct{}
}

type pairKey struct {
	kind        Kind
	left, right string
}

// NewResult returns an empty result for the sentence at index sentence.
func NewResult(sentence int) *Result {
	return &Result{Sentence: sentence, seen: map[pairKey]struct{}{}}
}

// Add appends a single-sided tuple of kind k.
func (r *Result) Add(k Kind, text string) {
	r.append(Tuple{Kind: k, Sentence: r.Sentence, Left: text})
}

// AddPair appends a pairwise tuple of kind k unless the same tuple was already
// added to this result. It reports whether the tuple was added.
func (r *Result) AddPair(k Kind, left, right string) bool {
	key := pairKey{k, left, right}
	if r.seen == nil {
		r.seen = map[pairKey]struct{}{}
	}
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	r.append(Tuple{Kind: k, Sentence: r.Sentence, Left: left, Right: right})
	return true
}

func (r *Result) append(t Tuple) {
	p := r.slot(t.Kind)
	*p = append(*p, t)
}

func (r *Result) slot(k Kind) *[]Tuple {
	switch k {
	case Subject:
		return &r.Subjects
	case Verb:
		return &r.Verbs
	case Object:
		return &r.Objects
	case SubjectVerb:
		return &r.SubjectVerbs
	case VerbObject:
		return &r.VerbObjects
	case SubjectObject:
		return &r.SubjectObjects
	}
	panic(fmt.Sprintf("relation: invalid kind %d", int(k)))
}

// Tuples returns the tuples of kind k.
func (r *Result) Tuples(k Kind) []Tuple {
	return *r.slot(k)
}

// Strings returns the rendered tuples of kind k.
func (r *Result) Strings(k Kind) []string {
	ts := r.Tuples(k)
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = t.String()
	}
	return s
}

// Len returns the total number of tuples.
func (r *Result) Len() int {
	n := 0
	for _, k := range Kinds() {
		n += len(r.Tuples(k))
	}
	return n
}

// SetSentence stamps the sentence index on the result and its tuples.
func (r *Result) SetSentence(i int) {
	r.Sentence = i
	for _, k := range Kinds() {
		ts := r.Tuples(k)
		for j := range ts {
			ts[j].Sentence = i
		}
	}
}

// MarshalJSON renders the result keyed by kind name.
func (r *Result) MarshalJSON() ([]byte, error) {
	m := map[string]any{"sentence": r.Sentence}
	for _, k := range Kinds() {
		m[k.String()] = r.Strings(k)
	}
	return json.Marshal(m)
}
