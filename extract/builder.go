// Package extract walks the dependency graph of a sentence and emits its
// subject, verb and object relations.
package extract

import (
	"log/slog"
	"sort"

	"github.com/revelaction/svorel/coord"
	"github.com/revelaction/svorel/graph"
	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/span"
)

// Builder extracts the relation tuples of one sentence graph. A Builder keeps
// no state between sentences and is safe for concurrent use.
type Builder struct {
	scheme    Scheme
	extractor span.Extractor
	modifiers graph.LabelSet
	separator string
	logger    *slog.Logger

	// phrases follows coordinated subjects and objects
	phrases coord.Propagator

	// verbsUp finds the verbs sharing an object (X -conj-> verb -dobj-> obj)
	verbsUp coord.Propagator

	// verbsDown finds the verbs coordinated with a passive verb
	verbsDown coord.Propagator
}

type Option func(*Builder)

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithSeparator sets the string placed between the words of a phrase.
// The default is the empty string, suited to Chinese.
func WithSeparator(sep string) Option {
	return func(b *Builder) {
		b.separator = sep
	}
}

func NewBuilder(s Scheme, ext span.Extractor, opts ...Option) *Builder {
	b := &Builder{
		scheme:    s,
		extractor: ext,
		modifiers: graph.NewLabelSet(s.Modifiers...),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.phrases = coord.Propagator{Label: s.Conjunct, Direction: coord.Children, Extractor: ext, Modifiers: b.modifiers}
	b.verbsUp = coord.Propagator{Label: s.Conjunct, Direction: coord.Parents}
	b.verbsDown = coord.Propagator{Label: s.Conjunct, Direction: coord.Children}

	return b
}

// Scheme returns the scheme of the builder.
func (b *Builder) Scheme() Scheme {
	return b.scheme
}

// Build returns the relations of the sentence g. The result carries sentence
// index 0; the Driver stamps the real index.
//
// Passive sentences are restructured so that the grammatical subject is
// reported as the object. All other sentences are walked from their subject
// edges; direct objects not reached from any subject are reported last as
// bare verb-object pairs.
func (b *Builder) Build(g *graph.Graph) *relation.Result {
	res := relation.NewResult(0)

	if b.passive(g, res) {
		return res
	}

	b.active(g, res)
	return res
}

// passive handles sentences with a passive auxiliary. It reports whether the
// sentence was consumed.
func (b *Builder) passive(g *graph.Graph, res *relation.Result) bool {
	auxs := g.EdgesWithLabel(b.scheme.PassiveAuxiliary)
	if len(auxs) == 0 {
		return false
	}

	if cops := g.EdgesWithLabel(b.scheme.Copula); len(cops) > 0 {
		b.passiveCopula(g, cops, res)
		return true
	}

	isPassive := false
	for _, aux := range auxs {
		// the notional object stands right before the marker: 书 被 张三 买 了
		object, err := g.Token(aux.Dependent.Index - 1)
		if err != nil || !b.scheme.Nominal.Match(object.Pos) {
			b.logger.Debug("passive edge without nominal object", "edge", aux.String())
			continue
		}

		// the notional subject, if any, sits between the marker and the verb
		var subjects []string
		for i := aux.Governor.Index; i > aux.Dependent.Index; i-- {
			t, err := g.Token(i)
			if err != nil {
				break
			}
			if b.scheme.Nominal.Match(t.Pos) {
				subjects = b.memberTexts(g, t)
				break
			}
		}

		var verbs []string
		for _, v := range b.verbsDown.Members(g, aux.Governor) {
			verbs = append(verbs, v.Form)
		}

		b.cross(res, subjects, verbs, b.memberTexts(g, object))
		isPassive = true
	}

	return isPassive
}

// passiveCopula handles passive sentences whose predicate is a copula
// construction. The copula is the verb and its governor the object.
func (b *Builder) passiveCopula(g *graph.Graph, cops []graph.Edge, res *relation.Result) {
	for _, cop := range cops {
		var subjects []string

		if marker, ok := b.scanLeft(g, cop.Dependent.Index, b.scheme.PassiveMarker); ok {
			if subject, ok := b.scanLeft(g, marker.Index, b.scheme.Nominal); ok {
				subjects = b.memberTexts(g, subject)
			}
		}

		b.cross(res, subjects, []string{cop.Dependent.Form}, b.memberTexts(g, cop.Governor))
	}
}

// scanLeft returns the first token at or left of index from whose tag matches.
func (b *Builder) scanLeft(g *graph.Graph, from int, m graph.TagMatcher) (graph.Token, bool) {
	for i := from; ; i-- {
		t, err := g.Token(i)
		if err != nil {
			return graph.Token{}, false
		}
		if m.Match(t.Pos) {
			return t, true
		}
	}
}

// cross emits the full cross product of subjects, verbs and objects.
func (b *Builder) cross(res *relation.Result, subjects, verbs, objects []string) {
	for _, o := range objects {
		res.Add(relation.Object, o)
	}

	for _, v := range verbs {
		res.Add(relation.Verb, v)
		for _, o := range objects {
			res.AddPair(relation.VerbObject, v, o)
		}
	}

	for _, s := range subjects {
		res.Add(relation.Subject, s)
		for _, v := range verbs {
			res.AddPair(relation.SubjectVerb, s, v)
		}
		for _, o := range objects {
			res.AddPair(relation.SubjectObject, s, o)
		}
	}
}

// verbObject is a verb paired with one object phrase.
type verbObject struct {
	verb   graph.Token
	object string
}

type edgeKey struct {
	gov, dep int
}

func (b *Builder) active(g *graph.Graph, res *relation.Result) {
	subjectEdges := g.EdgesWithLabel(b.scheme.NominalSubject)
	if b.scheme.MergePassiveSubjects && b.scheme.PassiveSubject != "" {
		subjectEdges = append(subjectEdges, g.EdgesWithLabel(b.scheme.PassiveSubject)...)
		sort.SliceStable(subjectEdges, func(i, j int) bool {
			return subjectEdges[i].Dependent.Index < subjectEdges[j].Dependent.Index
		})
	}

	if len(subjectEdges) == 0 {
		return
	}

	consumed := map[edgeKey]bool{}

	// object phrase of each verb reached from a subject, last one wins
	var verbs []graph.Token
	lastObject := map[int]string{}

	for _, se := range subjectEdges {
		subjects := b.memberTexts(g, se.Dependent)
		vos := b.objects(g, se.Governor, consumed)

		for _, s := range subjects {
			res.Add(relation.Subject, s)
			for _, vo := range vos {
				res.AddPair(relation.SubjectVerb, s, vo.verb.Form)
				res.AddPair(relation.VerbObject, vo.verb.Form, vo.object)
				res.AddPair(relation.SubjectObject, s, vo.object)
			}
		}

		for _, vo := range vos {
			if _, ok := lastObject[vo.verb.Index]; !ok {
				verbs = append(verbs, vo.verb)
			}
			lastObject[vo.verb.Index] = vo.object
		}

		b.copula(g, se, subjects, res)
	}

	for _, v := range verbs {
		res.Add(relation.Verb, v.Form)
		res.Add(relation.Object, lastObject[v.Index])
	}

	// direct objects no subject reached
	for _, e := range g.EdgesWithLabel(b.scheme.DirectObject) {
		if consumed[edgeKey{e.Governor.Index, e.Dependent.Index}] {
			continue
		}
		object := b.text(b.extractor.Extend(g, e.Dependent, b.modifiers))
		res.Add(relation.Verb, e.Governor.Form)
		res.Add(relation.Object, object)
		res.AddPair(relation.VerbObject, e.Governor.Form, object)
	}
}

// objects searches the graph below verb for direct-object edges. Each object
// is paired with every verb coordinated with its governor and expanded to its
// own coordinates. The (verb, object) pairs found are marked in consumed.
func (b *Builder) objects(g *graph.Graph, verb graph.Token, consumed map[edgeKey]bool) []verbObject {
	type frame struct {
		edges []graph.Edge
		next  int
	}

	var vos []verbObject
	visited := map[int]bool{verb.Index: true}
	stack := []frame{{edges: g.Outgoing(verb)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.edges) {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top.edges[top.next]
		top.next++

		if e.Label == b.scheme.DirectObject {
			objects := b.memberTexts(g, e.Dependent)
			for _, v := range b.verbsUp.Members(g, e.Governor) {
				consumed[edgeKey{v.Index, e.Dependent.Index}] = true
				for _, o := range objects {
					vos = append(vos, verbObject{verb: v, object: o})
				}
			}
			continue
		}

		if visited[e.Dependent.Index] {
			continue
		}
		visited[e.Dependent.Index] = true
		stack = append(stack, frame{edges: g.Outgoing(e.Dependent)})
	}

	return vos
}

// copula handles "他 是 老师": the subject governor (老师) carries the copula
// and is the predicate complement.
func (b *Builder) copula(g *graph.Graph, se graph.Edge, subjects []string, res *relation.Result) {
	if b.scheme.Copula == "" {
		return
	}
	cops := g.Children(se.Governor, b.scheme.Copula)
	if len(cops) == 0 {
		return
	}
	cop := cops[0].Form
	objects := b.memberTexts(g, se.Governor)

	res.Add(relation.Verb, cop)
	for _, s := range subjects {
		res.AddPair(relation.SubjectVerb, s, cop)
		for _, o := range objects {
			res.AddPair(relation.SubjectObject, s, o)
		}
	}
	for _, o := range objects {
		res.Add(relation.Object, o)
		res.AddPair(relation.VerbObject, cop, o)
	}
}

// memberTexts returns the phrase of head and of each of its coordinates.
func (b *Builder) memberTexts(g *graph.Graph, head graph.Token) []string {
	phrases := b.phrases.MemberPhrases(g, head)
	texts := make([]string, len(phrases))
	for i, p := range phrases {
		texts[i] = b.text(p)
	}
	return texts
}

func (b *Builder) text(p span.Phrase) string {
	return p.Join(b.separator)
}
