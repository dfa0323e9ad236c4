package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/lekhak/core"
)

func sampleReport() *core.Report {
	text := "Reach me at jo@example.com today."
	mask := strings.Repeat("_", len(text))
	return &core.Report{
		SessionID: "s1",
		Actions: []*core.Action{
			{
				Type:         core.ActionInsertText,
				StartWriting: "",
				EndWriting:   text,
				EndMask:      mask,
				Delta:        &core.Delta{Kind: core.DeltaInsert, Text: text, Chars: len(text), Words: 5},
				Logs: []core.RawEvent{
					{
						EventSource: core.SourceUser,
						EventName:   "text-insert",
						TextDelta:   &core.TextDelta{Ops: []core.Op{core.Insert(text)}},
					},
				},
				ModifiedSentences: []string{text},
				TemporalOrder:     []string{text},
			},
		},
		FinalWriting: text,
		FinalMask:    mask,
	}
}

func TestBlankPreservesLengthAndStructure(t *testing.T) {
	rep := sampleReport()
	require.NoError(t, New(Config{Blank: true}).Transform(rep))

	want := "xxxxx xx xx xx@xxxxxxx.xxx xxxxx."
	assert.Equal(t, want, rep.FinalWriting)
	assert.Len(t, rep.FinalWriting, len("Reach me at jo@example.com today."))

	a := rep.Actions[0]
	assert.Equal(t, want, a.EndWriting)
	assert.Equal(t, want, a.Delta.Text)
	assert.Equal(t, want, a.ModifiedSentences[0])
	assert.Equal(t, want, *a.Logs[0].TextDelta.Ops[0].Insert)

	// Masks and counts stay intact.
	assert.Equal(t, strings.Repeat("_", len(want)), a.EndMask)
	assert.Equal(t, len(want), a.Delta.Chars)
}

func TestPIIRulesReplaceEmail(t *testing.T) {
	rep := sampleReport()
	require.NoError(t, New(Config{PII: true}).Transform(rep))

	assert.Equal(t, "Reach me at [REDACTED:email] today.", rep.FinalWriting)
	assert.Equal(t, "Reach me at [REDACTED:email] today.", rep.Actions[0].EndWriting)
}

func TestAllowlistSkipsMatches(t *testing.T) {
	rep := sampleReport()
	r := New(Config{PII: true, Allowlist: []string{`@example\.com$`}})
	require.NoError(t, r.Transform(rep))

	assert.Equal(t, "Reach me at jo@example.com today.", rep.FinalWriting)
}

func TestExtraRuleAndOverlap(t *testing.T) {
	numbered, err := NewRegexRule("case_number", `CASE-\d+`)
	require.NoError(t, err)

	rep := sampleReport()
	rep.FinalWriting = "See CASE-1234 and CASE-99."
	r := New(Config{ExtraRules: []Rule{numbered}})
	require.NoError(t, r.Transform(rep))

	assert.Equal(t, "See [REDACTED:case_number] and [REDACTED:case_number].", rep.FinalWriting)
}

func TestRulesThenBlank(t *testing.T) {
	rep := sampleReport()
	require.NoError(t, New(Config{Blank: true, PII: true}).Transform(rep))

	// The email is replaced by its tag first, then everything blanks.
	assert.NotContains(t, rep.FinalWriting, "example")
	assert.NotContains(t, rep.FinalWriting, "x@x")
}

func TestChainWithReport(t *testing.T) {
	rep := sampleReport()
	require.NoError(t, core.Chain(rep, New(Config{Blank: true})))
	assert.NotContains(t, rep.FinalWriting, "Reach")
}
