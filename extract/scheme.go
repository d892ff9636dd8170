package extract

import (
	"errors"
	"fmt"

	"github.com/revelaction/svorel/graph"
)

// Relation labels of the Universal Chinese Dependencies emitted by the
// Stanford parser (enhanced dependencies).
const (
	NominalSubject        graph.Label = "nsubj"
	NominalPassiveSubject graph.Label = "nsubjpass"
	DirectObject          graph.Label = "dobj"
	Copula                graph.Label = "cop"
	Conjunct              graph.Label = "conj"
	AuxPassive            graph.Label = "auxpass"

	NounCompound        graph.Label = "compound:nn"
	AdjectivalModifier  graph.Label = "amod"
	ClausalModifier     graph.Label = "acl"
	AssociativeModifier graph.Label = "nmod:assmod"
	OrdinalModifier     graph.Label = "amod:ordmod"
	CaseMarker          graph.Label = "case"
	DiscourseMarker     graph.Label = "discourse"
)

// Relation labels of the HanLP (CoNLL 2009 Chinese) dependency parsers.
const (
	HanLPSubject    graph.Label = "SBV"
	HanLPObject     graph.Label = "VOB"
	HanLPCoordinate graph.Label = "COO"
	HanLPAttribute  graph.Label = "ATT"
)

// Scheme names the relation labels and tag classes of one parser.
//
// An empty label disables the constructions that depend on it: a scheme
// without a copula label never takes the copula paths.
type Scheme struct {
	Name string `yaml:"name"`

	NominalSubject   graph.Label `yaml:"nominal_subject"`
	PassiveSubject   graph.Label `yaml:"passive_subject"`
	DirectObject     graph.Label `yaml:"direct_object"`
	Copula           graph.Label `yaml:"copula"`
	Conjunct         graph.Label `yaml:"conjunct"`
	PassiveAuxiliary graph.Label `yaml:"passive_auxiliary"`

	// Modifiers are the labels followed when growing a head into a phrase.
	Modifiers []graph.Label `yaml:"modifiers"`

	// Nominal matches noun tags.
	Nominal graph.TagMatcher `yaml:"nominal_tags"`

	// PassiveMarker matches the tag of the passive marker (被).
	PassiveMarker graph.TagMatcher `yaml:"passive_marker_tags"`

	// MergePassiveSubjects treats passive-subject edges as additional
	// subject edges in active sentences.
	MergePassiveSubjects bool `yaml:"merge_passive_subjects"`
}

// UniversalChinese returns the scheme of the Stanford Chinese parser.
func UniversalChinese() Scheme {
	return Scheme{
		Name:             "universal-chinese",
		NominalSubject:   NominalSubject,
		PassiveSubject:   NominalPassiveSubject,
		DirectObject:     DirectObject,
		Copula:           Copula,
		Conjunct:         Conjunct,
		PassiveAuxiliary: AuxPassive,
		Modifiers: []graph.Label{
			NounCompound,
			AdjectivalModifier,
			ClausalModifier,
			AssociativeModifier,
			OrdinalModifier,
		},
		Nominal:       graph.TagMatcher{"N"},
		PassiveMarker: graph.TagMatcher{"SB"},
	}
}

// HanLP returns the scheme of the HanLP parsers. HanLP has no copula or
// passive-auxiliary relation.
func HanLP() Scheme {
	return Scheme{
		Name:           "hanlp",
		NominalSubject: HanLPSubject,
		DirectObject:   HanLPObject,
		Conjunct:       HanLPCoordinate,
		Modifiers:      []graph.Label{HanLPAttribute},
		Nominal:        graph.TagMatcher{"n"},
	}
}

// SchemeByName returns one of the built-in schemes.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "universal-chinese", "":
		return UniversalChinese(), nil
	case "hanlp":
		return HanLP(), nil
	}
	return Scheme{}, fmt.Errorf("unknown scheme %q", name)
}

// Validate checks that the labels the builder cannot work without are set.
func (s Scheme) Validate() error {
	if s.NominalSubject == "" {
		return errors.New("scheme has no nominal subject label")
	}
	if s.DirectObject == "" {
		return errors.New("scheme has no direct object label")
	}
	if len(s.Nominal) == 0 {
		return errors.New("scheme has no nominal tags")
	}
	return nil
}
