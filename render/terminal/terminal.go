// Package terminal renders session reports as ANSI-colored action cards.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/sonnes/lekhak/core"
)

const defaultWidth = 100

// Renderer pretty-prints a report as action cards to the terminal.
type Renderer struct {
	// Width overrides terminal width detection. Zero means auto-detect.
	Width int

	// Compact suppresses the per-action cards, printing the header only.
	Compact bool
}

// New creates a terminal Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes the report as ANSI-colored action cards to w.
func (r *Renderer) Render(w io.Writer, rep *core.Report) error {
	width := r.termWidth()

	writeHeader(w, rep)

	if !r.Compact {
		var prev *time.Time
		for _, a := range rep.Actions {
			var gap string
			if prev != nil {
				gap = formatDuration(a.StartTime.Sub(*prev))
			}
			end := a.EndTime
			prev = &end
			writeAction(w, a, gap, width)
		}
	}

	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) termWidth() int {
	if r.Width > 0 {
		return r.Width
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// writeHeader renders the session title plus the aggregate stat grid.
func writeHeader(w io.Writer, rep *core.Report) {
	fmt.Fprintln(w, styleTitle.Render("Session "+rep.SessionID))

	s := rep.Stats
	if s == nil {
		fmt.Fprintln(w, styleMeta.Render("no actions"))
		return
	}

	meta := []string{
		fmt.Sprintf("%d user / %d ai", s.UserActions, s.APIActions),
		formatDuration(s.Duration),
	}
	fmt.Fprintln(w, styleMeta.Render(strings.Join(meta, "  ")))

	fmt.Fprintln(w)
	writeStats(w, s)
}

// writeStats renders the counters in two rows: values then labels.
func writeStats(w io.Writer, s *core.Stats) {
	type stat struct {
		value string
		label string
	}
	stats := []stat{
		{formatNumber(s.Actions), "ACTIONS"},
		{formatNumber(s.InsertedWords), "WORDS IN"},
	}
	if s.DeletedWords > 0 {
		stats = append(stats, stat{formatNumber(s.DeletedWords), "WORDS OUT"})
	}
	stats = append(stats, stat{fmt.Sprintf("%.0f%%", s.AIShare*100), "AI SHARE"})
	if s.TopicShifts > 0 {
		stats = append(stats, stat{formatNumber(s.TopicShifts), "TOPIC SHIFTS"})
	}

	var values, labels []string
	for _, st := range stats {
		colWidth := max(len(st.value), len(st.label))
		values = append(values, fmt.Sprintf("%*s", colWidth, st.value))
		labels = append(labels, fmt.Sprintf("%-*s", colWidth, st.label))
	}

	fmt.Fprintln(w, "  "+styleStat.Render(strings.Join(values, "    ")))
	fmt.Fprintln(w, "  "+styleStatLabel.Render(strings.Join(labels, "    ")))
}

// writeSeparator renders a horizontal rule.
func writeSeparator(w io.Writer, width int) {
	n := min(width, 72)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleSeparator.Render(strings.Repeat("─", n)))
}

// writeAction renders a single action card: source badge, metadata, labels,
// and a delta summary.
func writeAction(w io.Writer, a *core.Action, gap string, width int) {
	contentWidth := width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	writeSeparator(w, width)

	badge := sourceBadge(a.Source)
	meta := []string{string(a.Type), formatTime(a.StartTime)}
	if gap != "" {
		meta = append(meta, "+"+gap)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+badge+"    "+styleMeta.Render(strings.Join(meta, "    ")))

	if line := summarizeDelta(a, contentWidth); line != "" {
		fmt.Fprintln(w, "  "+line)
	}
	if labels := levelLabels(a); labels != "" {
		fmt.Fprintln(w, "  "+styleLevelLabel.Render(labels))
	}
	if c := a.Coordination; c != nil {
		fmt.Fprintln(w, "  "+styleDetail.Render(fmt.Sprintf("%s (%.2f)", c.Direction, c.Score)))
	}
}

// levelLabels joins the annotation labels present on the action.
func levelLabels(a *core.Action) string {
	var labels []string
	if a.Level2Type != "" {
		labels = append(labels, a.Level2Type)
	}
	if a.Level3Type != "" {
		labels = append(labels, a.Level3Type)
	}
	if a.TopicShift != nil {
		labels = append(labels, fmt.Sprintf("shift %d", *a.TopicShift))
	}
	return strings.Join(labels, "  ")
}

func sourceBadge(src core.Source) string {
	switch src {
	case core.SourceAPI:
		return styleAIBadge.Render("AI")
	case core.SourceUser:
		return styleUserBadge.Render("USER")
	default:
		return styleMeta.Render(strings.ToUpper(string(src)))
	}
}

// truncate shortens text to maxWidth, appending "..." if needed.
// Multi-line text is reduced to the first line.
func truncate(s string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func formatTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04:05 PM")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
