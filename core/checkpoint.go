package core

import "time"

// Checkpoint is the resumable state of an in-progress action plus the
// session-wide sentence identity map. The checkpoint returned by one parse
// call is the only valid input to the next; it is owned by the calling
// session context and threaded explicitly, never held as global state.
type Checkpoint struct {
	Type       ActionType `json:"action_type"`
	Source     Source     `json:"action_source"`
	Logs       []RawEvent `json:"action_logs"`
	StartLogID int        `json:"action_start_log_id"`
	StartTime  time.Time  `json:"action_start_time"`

	StartWriting string `json:"action_start_writing"`
	StartMask    string `json:"action_start_mask"`

	WritingModified bool `json:"writing_modified"`

	// Document, mask, and delta as of this checkpoint, i.e. with the open
	// action's events applied. Complete promotes these into a terminal
	// action without reprocessing the events.
	WritingAtSave string `json:"writing_at_save"`
	MaskAtSave    string `json:"mask_at_save"`
	DeltaAtSave   *Delta `json:"delta_at_save,omitempty"`

	// Sentences holds every sentence committed by finalized actions. The
	// open action's sentences are previewed into the fields below but not
	// committed until it finalizes.
	Sentences         *SentenceMap `json:"sentences_seen_so_far"`
	ModifiedSentences []string     `json:"action_modified_sentences"`
	TemporalOrder     []string     `json:"sentences_temporal_order"`

	// Finalized marks a checkpoint that mirrors an action already emitted
	// (a suggestion-lifecycle event). Resuming from it opens nothing; it
	// exists so Complete reproduces the action for immediate analysis.
	Finalized bool `json:"finalized"`

	// NextLogID is the count of events consumed so far, used to keep
	// action_start_log_id stable across batches.
	NextLogID int `json:"next_log_id"`
}

// Complete converts the checkpoint into a terminal Action using its saved
// delta, writing, and mask, for immediate non-streaming analysis. Returns
// nil when there is no in-progress action to convert.
func (cp *Checkpoint) Complete() *Action {
	if cp == nil || cp.Type == "" || len(cp.Logs) == 0 {
		return nil
	}
	end := cp.StartTime
	if n := len(cp.Logs); n > 0 {
		end = cp.Logs[n-1].Time()
	}
	return &Action{
		Type:              cp.Type,
		Source:            cp.Source,
		Logs:              cp.Logs,
		StartLogID:        cp.StartLogID,
		StartTime:         cp.StartTime,
		EndTime:           end,
		StartWriting:      cp.StartWriting,
		EndWriting:        cp.WritingAtSave,
		EndMask:           cp.MaskAtSave,
		WritingModified:   cp.WritingModified,
		Delta:             cp.DeltaAtSave,
		ModifiedSentences: cp.ModifiedSentences,
		TemporalOrder:     cp.TemporalOrder,
	}
}
