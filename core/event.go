// Package core defines the shared data model for collaborative writing
// session analysis — raw editor events, text operations, provenance masks,
// merged actions, and resumable checkpoints — plus the pure functions that
// replay events against document state.
package core

import (
	"encoding/json"
	"time"
)

// Source identifies who produced an event or action.
type Source string

const (
	SourceUser Source = "user"
	SourceAPI  Source = "api"
)

// RawEvent is one logged editor interaction, as captured by the front-end
// collector. Events with a TextDelta modify the document; the rest are
// suggestion-lifecycle and cursor events.
type RawEvent struct {
	EventSource    Source     `json:"eventSource"`
	EventName      string     `json:"eventName"`
	EventTimestamp int64      `json:"eventTimestamp"` // epoch milliseconds
	TextDelta      *TextDelta `json:"textDelta,omitempty"`
}

// Time returns the event timestamp truncated to whole seconds, matching the
// resolution the rest of the pipeline works at.
func (e RawEvent) Time() time.Time {
	return time.Unix(e.EventTimestamp/1000, 0).UTC()
}

// Modified reports whether the event carries a non-empty operation list.
func (e RawEvent) Modified() bool {
	return e.TextDelta != nil && len(e.TextDelta.Ops) > 0
}

// DeleteCount sums the delete counts across the event's operations.
func (e RawEvent) DeleteCount() int {
	if e.TextDelta == nil {
		return 0
	}
	n := 0
	for _, op := range e.TextDelta.Ops {
		if op.Delete != nil {
			n += *op.Delete
		}
	}
	return n
}

// TextDelta is an ordered sequence of operations applied at a cursor.
type TextDelta struct {
	Ops []Op `json:"ops"`
}

// Op is a tagged variant: exactly one of Retain, Insert, or Delete is set.
// An insert payload that is not plain text (e.g. an embedded image object)
// is preserved in Embed and skipped by the replay engine.
type Op struct {
	Retain *int    `json:"retain,omitempty"`
	Insert *string `json:"insert,omitempty"`
	Delete *int    `json:"delete,omitempty"`

	Embed map[string]any `json:"-"`
}

// Retain constructs a retain operation.
func Retain(n int) Op { return Op{Retain: &n} }

// Insert constructs an insert operation.
func Insert(text string) Op { return Op{Insert: &text} }

// Delete constructs a delete operation.
func Delete(n int) Op { return Op{Delete: &n} }

// UnmarshalJSON decodes an operation, routing structured insert payloads
// into Embed instead of failing the whole event.
func (o *Op) UnmarshalJSON(data []byte) error {
	var raw struct {
		Retain *int            `json:"retain"`
		Insert json.RawMessage `json:"insert"`
		Delete *int            `json:"delete"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Retain = raw.Retain
	o.Delete = raw.Delete
	if len(raw.Insert) > 0 {
		var s string
		if err := json.Unmarshal(raw.Insert, &s); err == nil {
			o.Insert = &s
		} else {
			var m map[string]any
			if err := json.Unmarshal(raw.Insert, &m); err == nil {
				o.Embed = m
			}
		}
	}
	return nil
}

// MarshalJSON encodes the operation, re-emitting embedded payloads under the
// insert key so logs round-trip.
func (o Op) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 1)
	switch {
	case o.Retain != nil:
		m["retain"] = *o.Retain
	case o.Insert != nil:
		m["insert"] = *o.Insert
	case o.Embed != nil:
		m["insert"] = o.Embed
	case o.Delete != nil:
		m["delete"] = *o.Delete
	}
	return json.Marshal(m)
}
