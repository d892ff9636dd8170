package render

import (
	"encoding/json"
	"io"
)

// JSONRenderer writes sentence results as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes sentence results as a JSON array.
func (r *JSONRenderer) Render(results []*SentenceResult) {
	if results == nil {
		results = []*SentenceResult{}
	}
	json.NewEncoder(r.W).Encode(results)
}

// compile-time interface check
var _ Renderer = (*JSONRenderer)(nil)
