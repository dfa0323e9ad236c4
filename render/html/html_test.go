package html

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/lekhak/core"
)

func testReport() *core.Report {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	actions := []*core.Action{
		{
			Type:       core.ActionInsertText,
			Source:     core.SourceUser,
			StartTime:  start,
			EndTime:    start.Add(5 * time.Second),
			EndWriting: "# Draft\n\nHello world",
			EndMask:    strings.Repeat("_", len("# Draft\n\nHello world")),
			Delta:      &core.Delta{Kind: core.DeltaInsert, Text: "# Draft\n\nHello world", Chars: 20, Words: 3},
		},
		{
			Type:       core.ActionInsertSuggestion,
			Source:     core.SourceAPI,
			StartTime:  start.Add(30 * time.Second),
			EndTime:    start.Add(30 * time.Second),
			EndWriting: "# Draft\n\nHello world & more",
			EndMask:    strings.Repeat("_", 20) + strings.Repeat("*", 7),
			Delta:      &core.Delta{Kind: core.DeltaInsert, Text: " & more", Chars: 7, Words: 2},
			Level2Type: "minor_insert_minor_semantic_diff",
		},
	}
	return core.NewReport("abc-123", actions)
}

func TestRenderPage(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testReport()))

	out := buf.String()
	assert.Contains(t, out, "<title>Session abc-123</title>")
	assert.Contains(t, out, "Writer")
	assert.Contains(t, out, "AI")
	assert.Contains(t, out, "insert_text")
	assert.Contains(t, out, "minor_insert_minor_semantic_diff")
	assert.Contains(t, out, "action-0")
	assert.Contains(t, out, "action-1")
	// Delta text is escaped.
	assert.Contains(t, out, "&amp; more")
	// The final document renders as markdown.
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Hello world")
}

func TestRenderEscapesDelta(t *testing.T) {
	rep := testReport()
	rep.Actions[0].Delta.Text = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, rep))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, &core.Report{SessionID: "empty"}))
	assert.Contains(t, buf.String(), "Session empty")
	assert.NotContains(t, buf.String(), "Final document")
}

func TestRenderIndex(t *testing.T) {
	a := testReport()
	b := core.NewReport("aaa", nil)

	var buf bytes.Buffer
	require.NoError(t, New().RenderIndex(&buf, []*core.Report{a, b}))

	out := buf.String()
	// Sorted by session ID.
	assert.Less(t, strings.Index(out, "aaa"), strings.Index(out, "abc-123"))
}
