package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/plugin"
)

// pairSim scores listed pairs and zero for everything else.
func pairSim(scores map[[2]string]float64) func(a, b string) float64 {
	return func(a, b string) float64 { return scores[[2]string{a, b}] }
}

func suggestion(text string) *core.Action {
	return &core.Action{
		Type:       core.ActionInsertSuggestion,
		Level1Type: core.ActionInsertSuggestion,
		Source:     core.SourceAPI,
		Delta:      &core.Delta{Kind: core.DeltaInsert, Text: text, Chars: len(text), Words: 12},
	}
}

func insertion(text string, words int) *core.Action {
	return &core.Action{
		Type:       core.ActionInsertText,
		Level1Type: core.ActionInsertText,
		Source:     core.SourceUser,
		Delta:      &core.Delta{Kind: core.DeltaInsert, Text: text, Chars: len(text), Words: words},
	}
}

func TestTrackerTopicShifts(t *testing.T) {
	// "alpha" and "beta" are unrelated; "alpha two" continues "alpha".
	fn := pairSim(map[[2]string]float64{
		{"alpha", "alpha two"}: 0.8,
	})
	tr := NewTracker(fn, nil)

	a1 := insertion("alpha", 10)
	tr.Annotate(a1)
	require.NotNil(t, a1.TopicShift)
	assert.Equal(t, 1, *a1.TopicShift, "first idea counts as a shift")

	a2 := insertion("alpha two", 10)
	tr.Annotate(a2)
	assert.Equal(t, 1, *a2.TopicShift, "aligned text continues the idea")

	a3 := insertion("beta", 10)
	tr.Annotate(a3)
	assert.Equal(t, 2, *a3.TopicShift, "unrelated text starts a new idea")

	assert.Equal(t, 2, tr.TopicShift())
}

func TestTrackerTopicShiftMonotonic(t *testing.T) {
	tr := NewTracker(func(a, b string) float64 { return 0 }, nil)

	prev := 0
	for _, text := range []string{"one", "two", "three", "four"} {
		a := insertion(text, 10)
		tr.Annotate(a)
		require.NotNil(t, a.TopicShift)
		assert.GreaterOrEqual(t, *a.TopicShift, prev)
		prev = *a.TopicShift
	}
}

func TestTrackerSuggestionUpdatesState(t *testing.T) {
	tr := NewTracker(func(a, b string) float64 { return 0 }, nil)

	s := suggestion("A suggested continuation with quite a few words in it here.")
	tr.Annotate(s)

	assert.Equal(t, s.Delta.Text, tr.LatestSuggestion())
	require.NotNil(t, s.TopicShift)
	assert.Equal(t, 1, *s.TopicShift)
}

func TestTrackerPluginShortCircuit(t *testing.T) {
	plugins := []plugin.Plugin{
		plugin.MindlessEdit{Similarity: func(a, b string) float64 { return 1 }},
		plugin.AnyInsert{},
	}
	tr := NewTracker(func(a, b string) float64 { return 0 }, plugins)

	tiny := insertion("so", 2)
	tiny.ModifiedSentences = []string{"A sentence so edited."}
	tr.Annotate(tiny)
	assert.Equal(t, "minor_insert_mindless_edit", tiny.Level3Type, "first matching plugin wins")

	big := insertion("a fresh topic with plenty of new words to count", 10)
	tr.Annotate(big)
	assert.Equal(t, "any_insert", big.Level3Type)
	assert.Nil(t, big.TopicShift, "plugin match skips idea alignment")
}

func TestTrackerMinorInsertVariant(t *testing.T) {
	fn := func(a, b string) float64 { return 0 }

	t.Run("sole touched sentence realigns", func(t *testing.T) {
		tr := NewTracker(fn, nil)
		a := insertion("Short one.", 2)
		a.ModifiedSentences = []string{"Short one."}
		tr.Annotate(a)
		require.NotNil(t, a.TopicShift)
		assert.Equal(t, 1, *a.TopicShift)
	})

	t.Run("edit inside existing sentence leaves ideas alone", func(t *testing.T) {
		tr := NewTracker(fn, nil)
		a := insertion("fix", 1)
		a.ModifiedSentences = []string{"A sentence with the fix applied."}
		tr.Annotate(a)
		require.NotNil(t, a.TopicShift)
		assert.Equal(t, 0, *a.TopicShift, "no alignment, no shift")
	})
}

func TestEvaluate(t *testing.T) {
	px := namedPlugin{"X"}
	py := namedPlugin{"Y"}
	plugins := []plugin.Plugin{px, py}

	labeled := func(labels ...string) []*core.Action {
		out := make([]*core.Action, len(labels))
		for i, l := range labels {
			out[i] = &core.Action{Level3Type: l}
		}
		return out
	}

	t.Run("insufficient history", func(t *testing.T) {
		got := Evaluate(labeled("X", "X", "X"), plugins, 6, 3)
		assert.Empty(t, got)
	})

	t.Run("threshold met inside window", func(t *testing.T) {
		got := Evaluate(labeled("X", "", "X", "Y", "X", "X"), plugins, 6, 3)
		require.Len(t, got, 1)
		assert.Equal(t, "X", got[0].Name())
	})

	t.Run("only the window counts", func(t *testing.T) {
		// Three X labels exist, but only two fall inside the last 4 actions.
		got := Evaluate(labeled("X", "X", "", "X", "", ""), plugins, 4, 3)
		assert.Empty(t, got)
	})

	t.Run("registration order preserved", func(t *testing.T) {
		got := Evaluate(labeled("Y", "Y", "Y", "X", "X", "X"), plugins, 6, 3)
		require.Len(t, got, 2)
		assert.Equal(t, "X", got[0].Name())
		assert.Equal(t, "Y", got[1].Name())
	})
}

type namedPlugin struct{ name string }

func (p namedPlugin) Name() string                 { return p.name }
func (namedPlugin) Detect(*core.Action) bool       { return false }
func (namedPlugin) Intervention() plugin.Intervention {
	return plugin.Intervention{Type: plugin.None}
}
