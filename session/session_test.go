package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/parser"
	"github.com/sonnes/lekhak/plugin"
	"github.com/sonnes/lekhak/similarity"
)

const baseTS = int64(1700000000000)

func insertAt(src core.Source, i int, pos int, text string) core.RawEvent {
	ops := []core.Op{core.Insert(text)}
	if pos > 0 {
		ops = []core.Op{core.Retain(pos), core.Insert(text)}
	}
	return core.RawEvent{
		EventSource:    src,
		EventName:      "text-insert",
		EventTimestamp: baseTS + int64(i)*1000,
		TextDelta:      &core.TextDelta{Ops: ops},
	}
}

func TestProcessStreaming(t *testing.T) {
	plugins, err := plugin.FromNames([]string{"any_insert"}, similarity.Lexical)
	require.NoError(t, err)
	an := NewAnalyzer(parser.SameSentence{}, similarity.Lexical, plugins, 1, 1)
	s := an.NewSession("demo")

	// First batch leaves the insertion open: no finalized actions, but the
	// pending preview is fully annotated and already evaluated.
	res := an.Process(s, []core.RawEvent{insertAt(core.SourceUser, 0, 0, "Hello")})
	assert.Empty(t, res.Actions)
	require.NotNil(t, res.Pending)
	assert.Equal(t, core.ActionInsertText, res.Pending.Type)
	assert.Equal(t, core.ActionInsertText, res.Pending.Level1Type)
	assert.Equal(t, "any_insert", res.Pending.Level3Type)
	require.Len(t, res.Interventions, 1)
	assert.Equal(t, "any_insert", res.Interventions[0].Name())

	// Extending the insertion and accepting a suggestion finalizes both.
	res = an.Process(s, []core.RawEvent{
		insertAt(core.SourceUser, 1, 5, " world"),
		insertAt(core.SourceAPI, 2, 11, " Nice."),
	})
	require.Len(t, res.Actions, 2)
	assert.Nil(t, res.Pending)

	first := res.Actions[0]
	assert.Equal(t, core.ActionInsertText, first.Type)
	assert.Len(t, first.Logs, 2)
	assert.Equal(t, "Hello world", first.EndWriting)
	assert.Equal(t, "any_insert", first.Level3Type)

	second := res.Actions[1]
	assert.Equal(t, core.ActionInsertSuggestion, second.Type)
	assert.Equal(t, " Nice.", s.LatestSuggestion())

	assert.Len(t, s.Actions, 2)
}

func TestPendingPreviewDoesNotDisturbTrackers(t *testing.T) {
	an := NewAnalyzer(parser.SameSentence{}, similarity.Lexical, nil, 1, 1)
	s := an.NewSession("demo")

	// The pending preview in the first batch realigns ideas on a tracker
	// copy only; when the action finalizes in the second batch the real
	// trackers must count its topic shift exactly once.
	an.Process(s, []core.RawEvent{insertAt(core.SourceUser, 0, 0, "Hello")})
	an.Process(s, []core.RawEvent{
		insertAt(core.SourceUser, 1, 5, " world"),
		insertAt(core.SourceAPI, 2, 11, " Nice."),
	})

	// One shift from the finalized insert, one from the unrelated
	// suggestion text.
	assert.Equal(t, 2, s.pat.TopicShift())
}

func TestNewSessionGeneratesID(t *testing.T) {
	an := NewAnalyzer(parser.SameSentence{}, similarity.Lexical, nil, 1, 1)
	assert.NotEmpty(t, an.NewSession("").ID)
	assert.Equal(t, "named", an.NewSession("named").ID)
}

func TestStore(t *testing.T) {
	an := NewAnalyzer(parser.SameSentence{}, similarity.Lexical, nil, 1, 1)
	st := NewStore(an)

	created := st.Create()
	assert.NotEmpty(t, created.ID)

	got, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Same(t, created, got)

	_, ok = st.Get("missing")
	assert.False(t, ok)

	s := st.GetOrCreate("alpha")
	assert.Same(t, s, st.GetOrCreate("alpha"))

	ids := st.IDs()
	require.Len(t, ids, 2)
	assert.Contains(t, ids, "alpha")
	assert.Contains(t, ids, created.ID)
	assert.True(t, ids[0] < ids[1])
}
