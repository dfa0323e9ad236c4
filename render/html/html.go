// Package html renders session reports as standalone HTML pages styled with
// Tailwind CSS v4 (CDN) and markdown rendering via goldmark + chroma.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/sonnes/lekhak/core"
)

//go:embed templates/*.html
var content embed.FS

// Renderer renders a report to a standalone HTML page. The final document
// is treated as markdown: drafts written in the editor routinely carry
// headings, lists, and fenced code.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates an HTML Renderer with goldmark configured for GFM and syntax
// highlighting.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	tmpl := template.Must(
		template.New("page.html").
			Funcs(funcMap()).
			ParseFS(content, "templates/*.html"),
	)

	return &Renderer{md: md, tmpl: tmpl}
}

// pageData is the top-level template data passed to page.html.
type pageData struct {
	Report   *core.Report
	Actions  []actionData
	Document template.HTML
}

// actionData is the per-action template data.
type actionData struct {
	ID          string // anchor ID for timeline links (e.g. "action-0")
	Action      *core.Action
	SourceLabel string
	BorderClass string
	BadgeClass  string
	DotClass    string
	Duration    string // gap since the previous action (e.g. "4s")
	Labels      []string
	Delta       template.HTML
}

// indexData is the template data passed to index.html.
type indexData struct {
	Reports []*core.Report
}

// RenderIndex writes an HTML index page listing the given reports,
// sorted by session ID.
func (r *Renderer) RenderIndex(w io.Writer, reports []*core.Report) error {
	sorted := make([]*core.Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SessionID < sorted[j].SessionID
	})
	return r.tmpl.ExecuteTemplate(w, "index.html", indexData{Reports: sorted})
}

// Render writes the report as a complete HTML page to w.
func (r *Renderer) Render(w io.Writer, rep *core.Report) error {
	var actions []actionData
	var prev *time.Time
	for i, a := range rep.Actions {
		ad := actionData{
			ID:          fmt.Sprintf("action-%d", i),
			Action:      a,
			SourceLabel: sourceLabel(a.Source),
			BorderClass: borderClass(a.Source),
			BadgeClass:  badgeClass(a.Source),
			DotClass:    dotClass(a.Source),
			Labels:      levelLabels(a),
			Delta:       renderDelta(a),
		}
		if prev != nil {
			ad.Duration = formatDuration(a.StartTime.Sub(*prev))
		}
		end := a.EndTime
		prev = &end
		actions = append(actions, ad)
	}

	var doc template.HTML
	if rep.FinalWriting != "" {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(rep.FinalWriting), &buf); err != nil {
			return fmt.Errorf("goldmark convert: %w", err)
		}
		doc = template.HTML(`<div class="prose dark:prose-invert max-w-none">` + buf.String() + `</div>`)
	}

	data := pageData{
		Report:   rep,
		Actions:  actions,
		Document: doc,
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

// renderDelta renders the inserted or deleted text as an escaped block.
func renderDelta(a *core.Action) template.HTML {
	if a.Delta == nil {
		return ""
	}
	escaped := template.HTMLEscapeString(a.Delta.Text)
	switch a.Delta.Kind {
	case core.DeltaInsert:
		return template.HTML(`<pre class="text-xs whitespace-pre-wrap bg-emerald-50 dark:bg-emerald-950 text-emerald-800 dark:text-emerald-300 rounded p-3">` + escaped + `</pre>`)
	case core.DeltaDelete:
		return template.HTML(`<pre class="text-xs whitespace-pre-wrap bg-red-50 dark:bg-red-950 text-red-800 dark:text-red-300 line-through rounded p-3">` + escaped + `</pre>`)
	}
	return ""
}

func levelLabels(a *core.Action) []string {
	var labels []string
	if a.Level2Type != "" {
		labels = append(labels, a.Level2Type)
	}
	if a.Level3Type != "" {
		labels = append(labels, a.Level3Type)
	}
	if a.Coordination != nil {
		labels = append(labels, fmt.Sprintf("%s (%.2f)", a.Coordination.Direction, a.Coordination.Score))
	}
	return labels
}

func sourceLabel(src core.Source) string {
	switch src {
	case core.SourceUser:
		return "Writer"
	case core.SourceAPI:
		return "AI"
	default:
		return string(src)
	}
}

func borderClass(src core.Source) string {
	switch src {
	case core.SourceUser:
		return "border-l-4 border-l-blue-500"
	case core.SourceAPI:
		return "border-l-4 border-l-emerald-500"
	default:
		return ""
	}
}

func badgeClass(src core.Source) string {
	switch src {
	case core.SourceUser:
		return "text-blue-700 dark:text-blue-400 bg-blue-50 dark:bg-blue-950"
	case core.SourceAPI:
		return "text-emerald-700 dark:text-emerald-400 bg-emerald-50 dark:bg-emerald-950"
	default:
		return ""
	}
}

func dotClass(src core.Source) string {
	switch src {
	case core.SourceUser:
		return "bg-blue-500"
	case core.SourceAPI:
		return "bg-emerald-500"
	default:
		return "bg-slate-300"
	}
}
