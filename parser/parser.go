// Package parser implements the action merge state machine: it consumes an
// ordered batch of raw editor events plus an optional checkpoint for the
// in-progress action, and produces finalized actions and a new checkpoint
// that lets the next batch continue seamlessly. Two merge policies exist as
// interchangeable strategies; SameSentence is the default.
package parser

import (
	"github.com/charmbracelet/log"

	"github.com/sonnes/lekhak/core"
)

// DefaultDeleteThreshold is the character count above which a delete stops
// merging into an open insertion and forces a split.
const DefaultDeleteThreshold = 9

// Merger turns raw event batches into finalized actions. The checkpoint
// returned by one call is the only valid input to the next call for the
// same session. An empty batch echoes the checkpoint unchanged.
type Merger interface {
	Parse(events []core.RawEvent, cp *core.Checkpoint) ([]*core.Action, *core.Checkpoint)
}

// savingWordEvent is autosave noise emitted by the editor; both policies
// drop it before any classification or ID assignment.
const savingWordEvent = "saving-word"

// normalizeType resolves the deferred delete classification once look-back
// has decided the action is a delete.
func normalizeType(t core.ActionType) core.ActionType {
	if t == core.ActionTBD {
		return core.ActionDeleteText
	}
	return t
}

// trailingDeleteRun finds the start index of the trailing run of user
// text-delete events in logs and the characters they deleted in total.
// Returns (len(logs), 0) when the last log is not a user delete.
func trailingDeleteRun(logs []core.RawEvent) (start, chars int) {
	start = len(logs)
	for start > 0 {
		lg := logs[start-1]
		if lg.EventSource != core.SourceUser || lg.EventName != "text-delete" {
			break
		}
		chars += lg.DeleteCount()
		start--
	}
	return start, chars
}

// checkInvariantRun logs when an accumulated small-delete run exceeds the
// threshold, which the merge rules should have prevented. Processing falls
// back to the conservative large-delete branch rather than aborting.
func checkInvariantRun(chars, threshold int) {
	if chars > threshold {
		log.Debug("accumulated delete run exceeds threshold", "chars", chars, "threshold", threshold)
	}
}
