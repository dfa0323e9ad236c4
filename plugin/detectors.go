package plugin

import (
	"strings"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/similarity"
)

// Bundled detector thresholds.
const (
	EchoMinWords      = 10
	EchoMinSimilarity = 0.93
	EditMaxWords      = 3
	EditMinSimilarity = 0.9
)

// MindlessEcho flags a long human insertion whose opening sentence closely
// restates the text it accepted: the writer is echoing rather than writing.
type MindlessEcho struct {
	Similarity similarity.Func
}

func (MindlessEcho) Name() string { return "major_insert_mindless_echo" }

func (p MindlessEcho) Detect(a *core.Action) bool {
	if a.Level1Type != core.ActionInsertText || a.Delta == nil || a.Delta.Text == "" {
		return false
	}
	if a.Delta.Words <= EchoMinWords {
		return false
	}
	reference := a.Delta.Text
	first, _, _ := strings.Cut(reference, ". ")
	sim := p.Similarity(first, reference)
	a.Level3Info = &core.Level3Info{
		Similarity:           &sim,
		FirstSentenceWritten: first,
		LatestSuggestion:     reference,
	}
	return sim >= EchoMinSimilarity
}

func (MindlessEcho) Intervention() Intervention {
	return MustIntervention(Toast, "Detected a major insert mindless echo")
}

// MindlessEdit flags a tiny human insertion whose touched sentences stay
// nearly identical to the reference text: surface-level tinkering.
type MindlessEdit struct {
	Similarity similarity.Func
}

func (MindlessEdit) Name() string { return "minor_insert_mindless_edit" }

func (p MindlessEdit) Detect(a *core.Action) bool {
	if a.Level1Type != core.ActionInsertText || a.Delta == nil || a.Delta.Text == "" {
		return false
	}
	if a.Delta.Words > EditMaxWords {
		return false
	}
	reference := a.Delta.Text
	sim := p.Similarity(reference, strings.Join(a.ModifiedSentences, " "))
	a.Level3Info = &core.Level3Info{
		Similarity:        &sim,
		ModifiedSentences: a.ModifiedSentences,
		LatestSuggestion:  reference,
	}
	return sim >= EditMinSimilarity
}

func (MindlessEdit) Intervention() Intervention {
	return MustIntervention(Toast, "Detected a minor insert mindless edit")
}

// AnyInsert matches every human text insertion. Useful for exercising the
// intervention pipeline end to end.
type AnyInsert struct{}

func (AnyInsert) Name() string { return "any_insert" }

func (AnyInsert) Detect(a *core.Action) bool {
	return a.Level1Type == core.ActionInsertText
}

func (AnyInsert) Intervention() Intervention {
	return MustIntervention(Toast, "Detected a text insertion")
}
