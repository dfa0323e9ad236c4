package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpJSONRoundTrip(t *testing.T) {
	in := `{"ops":[{"retain":3},{"insert":"hi"},{"delete":2},{"insert":{"image":"x.png"}}]}`

	var td TextDelta
	require.NoError(t, json.Unmarshal([]byte(in), &td))
	require.Len(t, td.Ops, 4)

	assert.Equal(t, 3, *td.Ops[0].Retain)
	assert.Equal(t, "hi", *td.Ops[1].Insert)
	assert.Equal(t, 2, *td.Ops[2].Delete)
	assert.Nil(t, td.Ops[3].Insert, "structured insert payload goes to Embed")
	assert.Equal(t, "x.png", td.Ops[3].Embed["image"])

	out, err := json.Marshal(td)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestRawEventTime(t *testing.T) {
	e := RawEvent{EventTimestamp: 1700000000999}
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), e.Time(), "milliseconds truncate to seconds")
}

func TestCheckpointComplete(t *testing.T) {
	logs := []RawEvent{
		{EventSource: SourceUser, EventName: "text-insert", EventTimestamp: 1700000000000, TextDelta: &TextDelta{Ops: []Op{Insert("Hi")}}},
		{EventSource: SourceUser, EventName: "text-insert", EventTimestamp: 1700000005000, TextDelta: &TextDelta{Ops: []Op{Retain(2), Insert("!")}}},
	}
	cp := &Checkpoint{
		Type:          ActionInsertText,
		Source:        SourceUser,
		Logs:          logs,
		StartTime:     logs[0].Time(),
		WritingAtSave: "Hi!",
		MaskAtSave:    "___",
		DeltaAtSave:   &Delta{Kind: DeltaInsert, Text: "Hi!", Chars: 3, Words: 1},
	}

	a := cp.Complete()
	require.NotNil(t, a)
	assert.Equal(t, ActionInsertText, a.Type)
	assert.Equal(t, "Hi!", a.EndWriting)
	assert.Equal(t, logs[1].Time(), a.EndTime)
	assert.Equal(t, cp.DeltaAtSave, a.Delta)

	assert.Nil(t, (&Checkpoint{}).Complete(), "empty checkpoint has no action to complete")
	var nilCP *Checkpoint
	assert.Nil(t, nilCP.Complete())
}
