package core

import "github.com/charmbracelet/log"

// Classify maps one raw event to its semantic action type and reports
// whether the event modified the document.
//
// A user text-delete classifies as ActionTBD: deciding whether it merges
// into an open insertion or starts a delete action needs look-back, which
// belongs to the merge state machine. Unrecognized (source, name)
// combinations yield an empty type after a diagnostic — never an error, so
// one malformed log line cannot poison a batch.
func Classify(e RawEvent) (ActionType, bool) {
	var t ActionType

	switch e.EventSource {
	case SourceAPI:
		switch e.EventName {
		case "suggestion-open", "suggestion-reopen", "suggestion-close",
			"cursor-forward", "cursor-backward", "cursor-select":
			t = ActionPresentSuggestion
		case "text-insert":
			t = ActionInsertSuggestion
		default:
			log.Debug("unrecognized api event", "name", e.EventName)
		}

	case SourceUser:
		switch e.EventName {
		case "suggestion-get":
			t = ActionQuerySuggestion
		case "suggestion-hover", "suggestion-up", "suggestion-down":
			t = ActionHoverOverText
		case "suggestion-select":
			t = ActionAcceptSuggestion
		case "suggestion-close":
			t = ActionRejectSuggestion
		case "suggestion-reopen":
			t = ActionPresentSuggestion
		case "cursor-select", "cursor-forward", "cursor-backward":
			t = ActionCursorOperation
		case "text-insert":
			t = ActionInsertText
		case "text-delete":
			t = ActionTBD
		default:
			log.Debug("unrecognized user event", "name", e.EventName)
		}

	default:
		log.Debug("unrecognized event source", "source", e.EventSource, "name", e.EventName)
	}

	return t, e.Modified()
}
