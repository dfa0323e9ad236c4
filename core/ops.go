package core

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Mask character tags: one per document character, recording provenance.
const (
	MaskUser = '_' // user-authored
	MaskAPI  = '*' // API/AI-authored
)

// ApplyOps replays a sequence of operations against a (document, mask) pair
// and returns the updated pair. Operations are applied left to right against
// a read cursor; retain copies, insert appends with a provenance run, delete
// discards from the unconsumed head, or, when the head is exhausted, trims
// the already-emitted tail (a delete following inserts in the same batch).
//
// Counts are clamped to what remains so malformed logs degrade instead of
// panicking. The mask length invariant len(mask) == len(document) holds on
// return whenever it held on entry.
func ApplyOps(doc, mask string, ops []Op, source Source) (string, string) {
	head, headMask := doc, mask
	var out, outMask strings.Builder

	for _, op := range ops {
		switch {
		case op.Retain != nil:
			n := min(*op.Retain, len(head))
			out.WriteString(head[:n])
			outMask.WriteString(headMask[:n])
			head = head[n:]
			headMask = headMask[n:]

		case op.Insert != nil:
			text := *op.Insert
			tag := MaskUser
			if source == SourceAPI {
				tag = MaskAPI
			}
			out.WriteString(text)
			outMask.WriteString(strings.Repeat(string(tag), len(text)))

		case op.Embed != nil:
			log.Warn("skipping non-text insert payload", "keys", embedKeys(op.Embed))

		case op.Delete != nil:
			n := *op.Delete
			if head != "" {
				n = min(n, len(head))
				head = head[n:]
				headMask = headMask[n:]
			} else {
				// Delete against already-emitted output.
				s := out.String()
				m := outMask.String()
				n = min(n, len(s))
				out.Reset()
				outMask.Reset()
				out.WriteString(s[:len(s)-n])
				outMask.WriteString(m[:len(m)-n])
			}

		default:
			log.Debug("unknown operation", "op", op)
		}
	}

	return out.String() + head, outMask.String() + headMask
}

// ApplyEvents folds ApplyOps over every event carrying operations, threading
// document and mask forward. Pure, order-sensitive, deterministic.
func ApplyEvents(doc, mask string, events []RawEvent) (string, string) {
	for _, e := range events {
		if e.Modified() {
			doc, mask = ApplyOps(doc, mask, e.TextDelta.Ops, e.EventSource)
		}
	}
	return doc, mask
}

func embedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
