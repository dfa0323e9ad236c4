package core

import "time"

// ActionType labels the semantic kind of a merged action.
type ActionType string

const (
	ActionInsertText        ActionType = "insert_text"
	ActionDeleteText        ActionType = "delete_text"
	ActionInsertSuggestion  ActionType = "insert_suggestion"
	ActionPresentSuggestion ActionType = "present_suggestion"
	ActionQuerySuggestion   ActionType = "query_suggestion"
	ActionAcceptSuggestion  ActionType = "accept_suggestion"
	ActionRejectSuggestion  ActionType = "reject_suggestion"
	ActionHoverOverText     ActionType = "hover_over_text"
	ActionCursorOperation   ActionType = "cursor_operation"

	// ActionTBD marks a user delete whose classification needs look-back
	// against the currently open action (small deletes merge into inserts).
	ActionTBD ActionType = "TBD"
)

// IsSuggestion reports whether the type belongs to the suggestion lifecycle.
// Suggestion-lifecycle events always finalize any open action and are
// emitted as their own single-event action.
func (t ActionType) IsSuggestion() bool {
	switch t {
	case ActionPresentSuggestion, ActionQuerySuggestion, ActionAcceptSuggestion,
		ActionRejectSuggestion, ActionInsertSuggestion, ActionHoverOverText:
		return true
	}
	return false
}

// DeltaKind distinguishes what an action did to the document.
type DeltaKind string

const (
	DeltaInsert DeltaKind = "INSERT"
	DeltaDelete DeltaKind = "DELETE"
)

// Delta is the text an action inserted or deleted, with its counts.
type Delta struct {
	Kind  DeltaKind `json:"kind"`
	Text  string    `json:"text"`
	Chars int       `json:"chars"`
	Words int       `json:"words"`
}

// Action is the central unit of interpretation: a run of raw events merged
// into one coherent editing behavior, with document snapshots around it.
// Level 2 and level 3 annotation passes fill in the optional fields.
type Action struct {
	Type       ActionType `json:"action_type"`
	Source     Source     `json:"action_source"`
	Logs       []RawEvent `json:"action_logs"`
	StartLogID int        `json:"action_start_log_id"`
	StartTime  time.Time  `json:"action_start_time"`
	EndTime    time.Time  `json:"action_end_time"`

	StartWriting string `json:"action_start_writing"`
	EndWriting   string `json:"action_end_writing"`
	EndMask      string `json:"action_end_mask"`

	WritingModified bool   `json:"writing_modified"`
	Delta           *Delta `json:"action_delta,omitempty"`

	// ModifiedSentences are sentences first seen in this action, in
	// encounter order. TemporalOrder is every sentence present at the end
	// of the action, ordered by first-seen index.
	ModifiedSentences []string `json:"action_modified_sentences"`
	TemporalOrder     []string `json:"sentences_temporal_order"`

	// Level 1 annotation: a copy of Type taken before any priority
	// relabeling, so downstream passes can always see the merge result.
	Level1Type ActionType `json:"level_1_action_type,omitempty"`

	// Level 2 annotations.
	Level2Type          string             `json:"level_2_action_type,omitempty"`
	Level2Info          *Level2Info        `json:"level_2_info,omitempty"`
	SemanticExpansion   float64            `json:"action_semantic_expansion"`
	CumulativeExpansion float64            `json:"cumulative_semantic_expansion"`
	Coordination        *CoordinationScore `json:"coordination_score,omitempty"`

	// Level 3 annotations.
	Level3Type string      `json:"level_3_action_type,omitempty"`
	Level3Info *Level3Info `json:"level_3_info,omitempty"`
	TopicShift *int        `json:"topic_shift,omitempty"`
}

// Level2Info records the inputs behind a level 2 classification.
type Level2Info struct {
	Similarity        float64  `json:"similarity"`
	SentsBeforeAction []string `json:"select_sents_before_action"`
	SentsAfterAction  []string `json:"select_sents_after_action"`
}

// CoordinationScore measures cross-author echoing between a human insertion
// and an AI suggestion (in either direction).
type CoordinationScore struct {
	Score     float64 `json:"score"`
	Direction string  `json:"direction"` // "AI reflects human" or "human reflects AI"
}

// Level3Info carries detector diagnostics: the similarity a detector
// computed and the texts it compared.
type Level3Info struct {
	Similarity           *float64 `json:"similarity,omitempty"`
	FirstSentenceWritten string   `json:"first_sentence_written,omitempty"`
	LatestSuggestion     string   `json:"latest_accepted_suggestion,omitempty"`
	ModifiedSentences    []string `json:"modified_sentence,omitempty"`
}
