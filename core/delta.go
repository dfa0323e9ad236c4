package core

import "strings"

// ExtractDelta replays an action's accumulated operations against the
// document as it stood when the action started, and reduces them to the net
// inserted or deleted text with character and word counts.
//
// Deleted chunks are prepended as they are found, reconstructing the removed
// text front to back. A delete that lands on text inserted earlier in the
// same run also trims the accumulated insert string, so text typed and then
// immediately erased never shows up in the delta.
//
// Returns nil for action types that carry no text modification.
func ExtractDelta(startWriting string, logs []RawEvent, actionType ActionType) *Delta {
	head := startWriting
	var emitted, inserted, deleted string

	for _, e := range logs {
		if !e.Modified() {
			continue
		}
		for _, op := range e.TextDelta.Ops {
			switch {
			case op.Retain != nil:
				n := min(*op.Retain, len(head))
				emitted += head[:n]
				head = head[n:]

			case op.Insert != nil:
				emitted += *op.Insert
				inserted += *op.Insert

			case op.Delete != nil:
				n := *op.Delete
				if head != "" {
					n = min(n, len(head))
					deleted = head[:n] + deleted
					head = head[n:]
				} else {
					n = min(n, len(emitted))
					deleted = emitted[len(emitted)-n:] + deleted
					emitted = emitted[:len(emitted)-n]
					if n <= len(inserted) {
						inserted = inserted[:len(inserted)-n]
					} else {
						inserted = ""
					}
				}
			}
		}
	}

	switch actionType {
	case ActionInsertText, ActionInsertSuggestion:
		return &Delta{
			Kind:  DeltaInsert,
			Text:  inserted,
			Chars: len(inserted),
			Words: len(strings.Fields(inserted)),
		}
	case ActionDeleteText, ActionTBD:
		return &Delta{
			Kind:  DeltaDelete,
			Text:  deleted,
			Chars: len(deleted),
			Words: len(strings.Fields(deleted)),
		}
	}
	return nil
}
