package terminal

import (
	"fmt"

	"github.com/sonnes/lekhak/core"
)

// summarizeDelta produces a compact one-liner like `+12 "Hello world"` or
// `-9 chars`. Non-modifying actions summarize their event count instead.
func summarizeDelta(a *core.Action, maxWidth int) string {
	if a.Delta == nil {
		if n := len(a.Logs); n > 1 {
			return styleDetail.Render(fmt.Sprintf("%d events", n))
		}
		return ""
	}

	switch a.Delta.Kind {
	case core.DeltaInsert:
		head := fmt.Sprintf("+%d ", a.Delta.Chars)
		text := truncate(a.Delta.Text, maxWidth-len(head)-2)
		return styleInserted.Render(head) + styleDetail.Render(fmt.Sprintf("%q", text))
	case core.DeltaDelete:
		head := fmt.Sprintf("-%d ", a.Delta.Chars)
		text := truncate(a.Delta.Text, maxWidth-len(head)-2)
		return styleDeleted.Render(head) + styleDetail.Render(fmt.Sprintf("%q", text))
	}
	return ""
}
