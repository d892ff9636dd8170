package relation

import "fmt"

// Sink receives the tuples of one relation kind.
type Sink interface {
	Write(t Tuple) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(t Tuple) error

func (f SinkFunc) Write(t Tuple) error {
	return f(t)
}

// Sinks holds one sink per relation kind.
type Sinks struct {
	Subject       Sink
	Verb          Sink
	Object        Sink
	SubjectVerb   Sink
	VerbObject    Sink
	SubjectObject Sink
}

// Uniform returns Sinks that route every kind to s.
func Uniform(s Sink) Sinks {
	return Sinks{
		Subject:       s,
		Verb:          s,
		Object:        s,
		SubjectVerb:   s,
		VerbObject:    s,
		SubjectObject: s,
	}
}

// For returns the sink of kind k.
func (s Sinks) For(k Kind) Sink {
	switch k {
	case Subject:
		return s.Subject
	case Verb:
		return s.Verb
	case Object:
		return s.Object
	case SubjectVerb:
		return s.SubjectVerb
	case VerbObject:
		return s.VerbObject
	case SubjectObject:
		return s.SubjectObject
	}
	return nil
}

// Emit writes every tuple of r to the sink of its kind, kind by kind.
func (s Sinks) Emit(r *Result) error {
	for _, k := range Kinds() {
		sink := s.For(k)
		if sink == nil {
			return fmt.Errorf("no sink for relation kind %s", k)
		}
		for _, t := range r.Tuples(k) {
			if err := sink.Write(t); err != nil {
				return fmt.Errorf("write %s tuple: %w", k, err)
			}
		}
	}
	return nil
}
