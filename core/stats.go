package core

import (
	"fmt"
	"time"
)

// Stats summarizes a session's parsed action stream for reporting.
type Stats struct {
	Actions int                `json:"actions"`
	ByType  map[ActionType]int `json:"by_type,omitempty"`

	UserActions int `json:"user_actions"`
	APIActions  int `json:"api_actions"`

	InsertedChars int `json:"inserted_chars"`
	InsertedWords int `json:"inserted_words"`
	DeletedChars  int `json:"deleted_chars"`
	DeletedWords  int `json:"deleted_words"`

	// Provenance split of the final document, from the mask.
	UserChars int     `json:"user_chars"`
	AIChars   int     `json:"ai_chars"`
	AIShare   float64 `json:"ai_share"` // AIChars / (UserChars + AIChars)

	TopicShifts         int     `json:"topic_shifts"`
	CumulativeExpansion float64 `json:"cumulative_semantic_expansion"`

	Duration time.Duration `json:"duration"`
}

// ComputeStats aggregates over a session's actions in order. The final
// action's mask supplies the provenance split; the running level 2/3
// annotations supply expansion and topic-shift totals when present.
func ComputeStats(actions []*Action) *Stats {
	if len(actions) == 0 {
		return nil
	}

	s := &Stats{
		Actions: len(actions),
		ByType:  make(map[ActionType]int),
	}

	for _, a := range actions {
		s.ByType[a.Type]++
		switch a.Source {
		case SourceUser:
			s.UserActions++
		case SourceAPI:
			s.APIActions++
		}
		if a.Delta != nil {
			switch a.Delta.Kind {
			case DeltaInsert:
				s.InsertedChars += a.Delta.Chars
				s.InsertedWords += a.Delta.Words
			case DeltaDelete:
				s.DeletedChars += a.Delta.Chars
				s.DeletedWords += a.Delta.Words
			}
		}
		if a.TopicShift != nil && *a.TopicShift > s.TopicShifts {
			s.TopicShifts = *a.TopicShift
		}
		if a.CumulativeExpansion > s.CumulativeExpansion {
			s.CumulativeExpansion = a.CumulativeExpansion
		}
	}

	last := actions[len(actions)-1]
	for i := 0; i < len(last.EndMask); i++ {
		switch last.EndMask[i] {
		case MaskAPI:
			s.AIChars++
		case MaskUser:
			s.UserChars++
		}
	}
	if total := s.UserChars + s.AIChars; total > 0 {
		s.AIShare = float64(s.AIChars) / float64(total)
	}

	s.Duration = last.EndTime.Sub(actions[0].StartTime)
	return s
}

// RelativeTime formats a time.Time as a human-readable relative string.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}
