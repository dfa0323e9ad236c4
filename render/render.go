// Package render defines the interface for rendering session reports into
// various output formats.
package render

import (
	"io"

	"github.com/sonnes/lekhak/core"
)

// Renderer writes a report to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, r *core.Report) error
}
