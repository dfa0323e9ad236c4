// Package pattern implements the level 3 pass: behavioral pattern detection
// over annotated actions. It tracks the most recently accepted suggestion
// and a rolling "current idea" sentence list per session, dispatches the
// active plugins in registration order with first-match short circuit, and
// maintains a monotonic topic-shift counter.
package pattern

import (
	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/plugin"
	"github.com/sonnes/lekhak/similarity"
)

// Idea-alignment thresholds: new text continues the current idea when its
// similarity to any sentence in the idea list strictly exceeds the maximum;
// insertions of at least MinWords words run full alignment.
const (
	IdeaAlignmentMaxSimilarity = 0.6
	IdeaAlignmentMinWords      = 10
)

// Tracker carries one session's level 3 state across streaming batches.
// Annotating the same action sequence through one Tracker or through
// AnnotateAll yields identical results.
type Tracker struct {
	fn      similarity.Func
	plugins []plugin.Plugin

	latestSuggestion string
	ideas            []string
	topicShift       int
}

// NewTracker returns a tracker with an empty current idea, so the first
// aligned insertion always counts as the first topic shift.
func NewTracker(fn similarity.Func, plugins []plugin.Plugin) *Tracker {
	return &Tracker{fn: fn, plugins: plugins, ideas: []string{""}}
}

// Clone returns an independent tracker with the same state. Used to
// annotate a provisional action without disturbing the session's real state.
func (t *Tracker) Clone() *Tracker {
	c := *t
	c.ideas = append([]string(nil), t.ideas...)
	return &c
}

// LatestSuggestion returns the text of the most recently accepted AI
// suggestion, or empty if none has been accepted yet.
func (t *Tracker) LatestSuggestion() string { return t.latestSuggestion }

// TopicShift returns the current topic-shift count.
func (t *Tracker) TopicShift() int { return t.topicShift }

// Annotate runs the level 3 pass over one action.
func (t *Tracker) Annotate(a *core.Action) {
	if a.Level1Type == core.ActionInsertSuggestion && a.Delta != nil {
		t.latestSuggestion = a.Delta.Text
		t.align(a.Delta.Text)
		a.TopicShift = intp(t.topicShift)
	}

	for _, p := range t.plugins {
		if p.Detect(a) {
			a.Level3Type = p.Name()
			return
		}
	}

	if a.Level1Type == core.ActionInsertText && a.Delta != nil {
		if a.Delta.Words >= IdeaAlignmentMinWords {
			t.align(a.Delta.Text)
		} else {
			t.alignMinor(a)
		}
		a.TopicShift = intp(t.topicShift)
	}
}

// align compares text against every sentence in the current idea list. A
// match extends the idea; no match resets the list to the new text and
// counts a topic shift.
func (t *Tracker) align(text string) {
	for _, idea := range t.ideas {
		if t.fn(idea, text) > IdeaAlignmentMaxSimilarity {
			t.ideas = append(t.ideas, text)
			return
		}
	}
	t.ideas = []string{text}
	t.topicShift++
}

// alignMinor is the small-insertion variant: it only considers the text when
// the action's sole touched sentence is exactly the inserted text.
func (t *Tracker) alignMinor(a *core.Action) {
	text := a.Delta.Text
	if len(a.ModifiedSentences) != 1 || a.ModifiedSentences[0] != text {
		return
	}
	t.align(text)
}

func intp(v int) *int { return &v }

// AnnotateAll annotates one session's actions in temporal order.
func AnnotateAll(actions []*core.Action, fn similarity.Func, plugins []plugin.Plugin) {
	t := NewTracker(fn, plugins)
	for _, a := range actions {
		t.Annotate(a)
	}
}

// AnnotateSessions annotates every session independently.
func AnnotateSessions(sessions map[string][]*core.Action, fn similarity.Func, plugins []plugin.Plugin) {
	for _, actions := range sessions {
		AnnotateAll(actions, fn, plugins)
	}
}
