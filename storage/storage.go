package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/revelaction/svorel/relation"
	sent "github.com/revelaction/svorel/sentence"
)

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Tokens) is not loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences to storage
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Run is one extraction over a set of documents.
type Run struct {
	Id      string
	Started time.Time
	Scheme  string
}

// NewRun returns a run with a fresh random id.
func NewRun(scheme string) Run {
	return Run{
		Id:      uuid.NewString(),
		Started: time.Now().UTC().Truncate(time.Second),
		Scheme:  scheme,
	}
}

// TupleWriter defines write operations for extracted tuples
type TupleWriter interface {
	// Start registers a run. Tuples can only be written to a started run.
	Start(run Run) error

	// WriteDoc persists the tuples of one document atomically.
	WriteDoc(runId, doc string, tuples []relation.Tuple) error
}

// TupleReader defines read operations for extracted tuples
type TupleReader interface {
	// Runs returns the runs, most recent first.
	Runs() ([]Run, error)

	// Tuples returns the tuples of kind k of a document in emission order.
	Tuples(runId, doc string, k relation.Kind) ([]relation.Tuple, error)

	// Counts returns the number of tuples of each kind in a run.
	Counts(runId string) (map[relation.Kind]int, error)
}

// TupleRepository combines read and write operations
type TupleRepository interface {
	TupleReader
	TupleWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(labels []string, cb func(current, total int, name string)) error
}
