package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	shift := 2

	actions := []*Action{
		{
			Type:      ActionInsertText,
			Source:    SourceUser,
			StartTime: start,
			EndTime:   start.Add(10 * time.Second),
			Delta:     &Delta{Kind: DeltaInsert, Text: "Hello world", Chars: 11, Words: 2},
		},
		{
			Type:      ActionInsertSuggestion,
			Source:    SourceAPI,
			StartTime: start.Add(20 * time.Second),
			EndTime:   start.Add(20 * time.Second),
			Delta:     &Delta{Kind: DeltaInsert, Text: " indeed", Chars: 7, Words: 1},
		},
		{
			Type:                ActionDeleteText,
			Source:              SourceUser,
			StartTime:           start.Add(30 * time.Second),
			EndTime:             start.Add(40 * time.Second),
			Delta:               &Delta{Kind: DeltaDelete, Text: "urld", Chars: 4, Words: 1},
			EndWriting:          "Hello wo indeed",
			EndMask:             "________*******",
			TopicShift:          &shift,
			CumulativeExpansion: 1.5,
		},
	}

	s := ComputeStats(actions)
	require.NotNil(t, s)

	assert.Equal(t, 3, s.Actions)
	assert.Equal(t, 2, s.UserActions)
	assert.Equal(t, 1, s.APIActions)
	assert.Equal(t, 1, s.ByType[ActionInsertText])
	assert.Equal(t, 1, s.ByType[ActionDeleteText])

	assert.Equal(t, 18, s.InsertedChars)
	assert.Equal(t, 3, s.InsertedWords)
	assert.Equal(t, 4, s.DeletedChars)
	assert.Equal(t, 1, s.DeletedWords)

	assert.Equal(t, 8, s.UserChars)
	assert.Equal(t, 7, s.AIChars)
	assert.InDelta(t, 7.0/15.0, s.AIShare, 1e-9)

	assert.Equal(t, 2, s.TopicShifts)
	assert.InDelta(t, 1.5, s.CumulativeExpansion, 1e-9)
	assert.Equal(t, 40*time.Second, s.Duration)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Nil(t, ComputeStats(nil))
}
