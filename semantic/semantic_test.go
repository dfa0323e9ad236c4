package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/lekhak/core"
)

func constant(v float64) func(a, b string) float64 {
	return func(a, b string) float64 { return v }
}

func insert(start, end string, words int, modified ...string) *core.Action {
	return &core.Action{
		Type:              core.ActionInsertText,
		Source:            core.SourceUser,
		StartWriting:      start,
		EndWriting:        end,
		Delta:             &core.Delta{Kind: core.DeltaInsert, Text: end[len(start):], Chars: len(end) - len(start), Words: words},
		ModifiedSentences: modified,
	}
}

func TestAnnotatorSkipsFirstAction(t *testing.T) {
	actions := []*core.Action{
		insert("", "A base sentence.", 3, "A base sentence."),
		insert("A base sentence.", "A base sentence. More words now.", 3, "More words now."),
	}

	NewAnnotator(constant(0.5)).AnnotateAll(actions)

	assert.Empty(t, actions[0].Level2Type)
	assert.Nil(t, actions[0].Level2Info)
	assert.NotEmpty(t, actions[1].Level2Type)
	require.NotNil(t, actions[1].Level2Info)
	assert.InDelta(t, 0.5, actions[1].Level2Info.Similarity, 1e-9)
}

func TestAnnotatorSkipsAfterEmptyDocument(t *testing.T) {
	actions := []*core.Action{
		{Type: core.ActionDeleteText, EndWriting: ""},
		insert("", "Fresh start.", 2, "Fresh start."),
	}

	NewAnnotator(constant(0.5)).AnnotateAll(actions)

	assert.Empty(t, actions[1].Level2Type, "previous action left an empty document")
}

func TestAnnotatorClassification(t *testing.T) {
	tests := []struct {
		name       string
		actionType core.ActionType
		words      int
		sim        float64
		want       string
	}{
		{name: "major insert major diff", actionType: core.ActionInsertText, words: 12, sim: 0.5, want: MajorInsertMajorDiff},
		{name: "major insert at band edge", actionType: core.ActionInsertText, words: 12, sim: 0.9, want: MajorInsertMajorDiff},
		{name: "major insert minor diff", actionType: core.ActionInsertText, words: 12, sim: 0.92, want: MajorInsertMinorDiff},
		{name: "minor insert major diff", actionType: core.ActionInsertText, words: 3, sim: 0.95, want: MinorInsertMajorDiff},
		{name: "minor insert minor diff", actionType: core.ActionInsertText, words: 3, sim: 0.97, want: MinorInsertMinorDiff},
		{name: "delete major diff", actionType: core.ActionDeleteText, words: 4, sim: 0.95, want: DeleteMajorDiff},
		{name: "delete minor diff", actionType: core.ActionDeleteText, words: 4, sim: 0.97, want: DeleteMinorDiff},
		{name: "suggestion gets no label", actionType: core.ActionInsertSuggestion, words: 12, sim: 0.5, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &core.Action{
				Type:              tt.actionType,
				StartWriting:      "Base sentence.",
				EndWriting:        "Base sentence. Changed.",
				Delta:             &core.Delta{Kind: core.DeltaInsert, Text: "Changed.", Chars: 8, Words: tt.words},
				ModifiedSentences: []string{"Changed."},
			}
			actions := []*core.Action{
				insert("", "Base sentence.", 2, "Base sentence."),
				target,
			}

			NewAnnotator(constant(tt.sim)).AnnotateAll(actions)

			assert.Equal(t, tt.want, target.Level2Type)
		})
	}
}

func TestCumulativeExpansion(t *testing.T) {
	actions := []*core.Action{
		insert("", "One sentence.", 2, "One sentence."),
		insert("One sentence.", "One sentence. Two now.", 2, "Two now."),
		{Type: core.ActionPresentSuggestion, StartWriting: "One sentence. Two now.", EndWriting: "One sentence. Two now."},
	}

	NewAnnotator(constant(0.5)).AnnotateAll(actions)

	assert.InDelta(t, 0.5, actions[0].SemanticExpansion, 1e-9)
	assert.InDelta(t, 0.5, actions[0].CumulativeExpansion, 1e-9)
	assert.InDelta(t, 1.0, actions[1].CumulativeExpansion, 1e-9)
	assert.Zero(t, actions[2].SemanticExpansion, "no touched sentences means no expansion")
	assert.InDelta(t, 1.0, actions[2].CumulativeExpansion, 1e-9)
}

func TestCoordinationScores(t *testing.T) {
	human := insert("Seed.", "Seed. A long human sentence with many fresh words in it.", 11,
		"A long human sentence with many fresh words in it.")
	ai := &core.Action{
		Type:         core.ActionInsertSuggestion,
		Source:       core.SourceAPI,
		StartWriting: human.EndWriting,
		EndWriting:   human.EndWriting + " And an AI reply.",
		Delta:        &core.Delta{Kind: core.DeltaInsert, Text: " And an AI reply.", Chars: 17, Words: 4},
		ModifiedSentences: []string{"And an AI reply."},
	}
	human2 := insert(ai.EndWriting, ai.EndWriting+" Another long human sentence with plenty of new words too.", 10,
		"Another long human sentence with plenty of new words too.")

	actions := []*core.Action{
		insert("", "Seed.", 1, "Seed."),
		human,
		ai,
		human2,
	}

	NewAnnotator(constant(0.5)).AnnotateAll(actions)

	require.Contains(t, human.Level2Type, "major_insert")

	require.NotNil(t, ai.Coordination)
	assert.Equal(t, "AI reflects human", ai.Coordination.Direction)

	require.NotNil(t, human2.Coordination)
	assert.Equal(t, "human reflects AI", human2.Coordination.Direction)

	assert.Nil(t, human.Coordination, "no prior suggestion to reflect")
}

func TestTrackerMatchesBatch(t *testing.T) {
	build := func() []*core.Action {
		return []*core.Action{
			insert("", "Start here.", 2, "Start here."),
			insert("Start here.", "Start here. A much longer follow up sentence with lots of words.", 11,
				"A much longer follow up sentence with lots of words."),
			{Type: core.ActionDeleteText, StartWriting: "Start here. A much longer follow up sentence with lots of words.",
				EndWriting: "Start here.", Delta: &core.Delta{Kind: core.DeltaDelete, Text: "A much longer follow up sentence with lots of words.", Chars: 52, Words: 10}},
		}
	}

	batch := build()
	NewAnnotator(constant(0.4)).AnnotateAll(batch)

	streamed := build()
	tr := NewAnnotator(constant(0.4)).NewTracker()
	for _, a := range streamed {
		tr.Annotate(a)
	}

	for i := range batch {
		assert.Equal(t, batch[i], streamed[i], "action %d", i)
	}
}
