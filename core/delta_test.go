package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(name string, ops ...Op) RawEvent {
	e := RawEvent{EventSource: SourceUser, EventName: name}
	if len(ops) > 0 {
		e.TextDelta = &TextDelta{Ops: ops}
	}
	return e
}

func TestExtractDelta(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		logs       []RawEvent
		actionType ActionType
		wantKind   DeltaKind
		wantText   string
		wantWords  int
	}{
		{
			name:       "accumulated insert",
			start:      "",
			logs:       []RawEvent{ev("text-insert", Insert("Hello")), ev("text-insert", Retain(5), Insert(" world"))},
			actionType: ActionInsertText,
			wantKind:   DeltaInsert,
			wantText:   "Hello world",
			wantWords:  2,
		},
		{
			name:       "delete rebuilds removed text front to back",
			start:      "Hello world",
			logs:       []RawEvent{ev("text-delete", Retain(8), Delete(3)), ev("text-delete", Retain(5), Delete(3))},
			actionType: ActionDeleteText,
			wantKind:   DeltaDelete,
			wantText:   " world",
			wantWords:  1,
		},
		{
			name:  "insert then delete trims the insert",
			start: "",
			logs: []RawEvent{
				ev("text-insert", Insert("Helloo")),
				ev("text-delete", Delete(1)),
			},
			actionType: ActionInsertText,
			wantKind:   DeltaInsert,
			wantText:   "Hello",
			wantWords:  1,
		},
		{
			name:       "TBD extracts as delete",
			start:      "Hi there",
			logs:       []RawEvent{ev("text-delete", Retain(2), Delete(6))},
			actionType: ActionTBD,
			wantKind:   DeltaDelete,
			wantText:   " there",
			wantWords:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExtractDelta(tt.start, tt.logs, tt.actionType)
			require.NotNil(t, d)
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.wantText, d.Text)
			assert.Equal(t, len(tt.wantText), d.Chars)
			assert.Equal(t, tt.wantWords, d.Words)
		})
	}
}

func TestExtractDeltaNilForNonTextActions(t *testing.T) {
	d := ExtractDelta("Hi", []RawEvent{ev("cursor-forward")}, ActionCursorOperation)
	assert.Nil(t, d)
}
