// Package json renders reports as JSON (serializes the annotated action
// stream as-is).
package json

import (
	"encoding/json"
	"io"

	"github.com/sonnes/lekhak/core"
)

// Renderer renders a report to JSON.
type Renderer struct {
	// Indent controls pretty-printing. When true, output is indented.
	Indent bool
}

// Render writes the report to w, followed by a newline.
func (r *Renderer) Render(w io.Writer, rep *core.Report) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep)
}
