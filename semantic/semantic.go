// Package semantic implements the level 2 classification pass: each action is
// labeled by how semantically different its touched sentences are from the
// sentences they displaced, using an injected similarity function.
package semantic

import (
	"math"
	"slices"
	"strings"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/similarity"
)

// Classification thresholds. An insertion is "major" at MinInsertWords words;
// the similarity bands split major/minor semantic difference.
const (
	MinInsertWords           = 10
	MajorInsertMaxSimilarity = 0.9
	MinorInsertMaxSimilarity = 0.95
	DeleteMaxSimilarity      = 0.95
)

// Level 2 action labels.
const (
	MajorInsertMajorDiff = "major_insert_major_semantic_diff"
	MajorInsertMinorDiff = "major_insert_minor_semantic_diff"
	MinorInsertMajorDiff = "minor_insert_major_semantic_diff"
	MinorInsertMinorDiff = "minor_insert_minor_semantic_diff"
	DeleteMajorDiff      = "delete_major_semantic_diff"
	DeleteMinorDiff      = "delete_minor_semantic_diff"
)

// Annotator runs the level 2 pass. The similarity function is treated as an
// injected, potentially expensive oracle; wrap it with similarity.Memoized
// when repeated comparisons are expected.
type Annotator struct {
	fn similarity.Func
}

func NewAnnotator(fn similarity.Func) *Annotator {
	return &Annotator{fn: fn}
}

// AnnotateAll annotates one session's actions in temporal order.
func (a *Annotator) AnnotateAll(actions []*core.Action) {
	tr := a.NewTracker()
	for _, act := range actions {
		tr.Annotate(act)
	}
}

// AnnotateSessions annotates every session in a logs-by-session result.
// Sessions are independent; annotation state never crosses them.
func (a *Annotator) AnnotateSessions(sessions map[string][]*core.Action) {
	for _, actions := range sessions {
		a.AnnotateAll(actions)
	}
}

// Tracker carries one session's level 2 state across streaming batches:
// the previous document snapshot, the running cumulative expansion, and the
// annotated history that coordination scores look back into. Annotating the
// same action sequence through a Tracker or through AnnotateAll yields
// identical results.
type Tracker struct {
	an          *Annotator
	seen        int
	prevWriting string
	cumulative  float64
	history     []*core.Action
}

func (a *Annotator) NewTracker() *Tracker {
	return &Tracker{an: a}
}

// Clone returns an independent tracker with the same state. Used to
// annotate a provisional action (an open checkpoint completed for preview)
// without disturbing the session's real state.
func (t *Tracker) Clone() *Tracker {
	c := *t
	c.history = append([]*core.Action(nil), t.history...)
	return &c
}

// Annotate classifies one action against the session state and appends it to
// the tracker's history.
func (t *Tracker) Annotate(act *core.Action) {
	// The first action of a session, and any action following an empty
	// document, has nothing meaningful to compare against.
	if t.seen > 0 && t.prevWriting != "" {
		sim, before, after := t.an.similarityWithPrev(act, t.prevWriting)
		act.Level2Info = &core.Level2Info{
			Similarity:        sim,
			SentsBeforeAction: before,
			SentsAfterAction:  after,
		}
		act.Level2Type = t.an.classify(act, sim)
	}

	act.SemanticExpansion = t.an.expansion(act)
	t.cumulative += act.SemanticExpansion
	act.CumulativeExpansion = t.cumulative

	if cs := t.an.coordination(act, t.history); cs != nil {
		act.Coordination = cs
	}

	t.seen++
	t.prevWriting = act.EndWriting
	t.history = append(t.history, act)
}

// similarityWithPrev compares the sentences this action newly introduced
// against the sentences that existed before the action but not after it.
func (a *Annotator) similarityWithPrev(act *core.Action, prevWriting string) (float64, []string, []string) {
	prevSents := core.Sentences(prevWriting)
	currSents := core.Sentences(act.EndWriting)
	after := act.ModifiedSentences

	var before []string
	for _, sent := range prevSents {
		if !slices.Contains(currSents, sent) {
			before = append(before, sent)
		}
	}

	sim := math.Abs(a.fn(strings.Join(after, " "), strings.Join(before, " ")))
	return sim, before, after
}

func (a *Annotator) classify(act *core.Action, sim float64) string {
	if act.Delta == nil {
		return ""
	}
	switch act.Type {
	case core.ActionInsertText:
		if act.Delta.Words >= MinInsertWords {
			if sim <= MajorInsertMaxSimilarity {
				return MajorInsertMajorDiff
			}
			return MajorInsertMinorDiff
		}
		if sim <= MinorInsertMaxSimilarity {
			return MinorInsertMajorDiff
		}
		return MinorInsertMinorDiff
	case core.ActionDeleteText:
		if sim <= DeleteMaxSimilarity {
			return DeleteMajorDiff
		}
		return DeleteMinorDiff
	}
	return ""
}

// expansion measures how much an action moved the document, normalized by
// how many new sentences it took to do it.
func (a *Annotator) expansion(act *core.Action) float64 {
	n := len(act.ModifiedSentences)
	if n == 0 {
		return 0
	}
	return 1 - a.fn(act.StartWriting, act.EndWriting)/float64(n)
}

// coordination scores cross-author echoing. An accepted AI insertion is
// compared against the last human action labeled major_insert ("AI reflects
// human"); a human major_insert is compared against the last AI insertion
// ("human reflects AI"). Either direction needs both sides to exist.
func (a *Annotator) coordination(act *core.Action, previous []*core.Action) *core.CoordinationScore {
	if act.Type == core.ActionInsertSuggestion && act.Delta != nil {
		if last := lastMajorInsert(previous); last != nil && last.Delta != nil {
			return &core.CoordinationScore{
				Score:     a.fn(last.Delta.Text, act.Delta.Text),
				Direction: "AI reflects human",
			}
		}
	}
	if strings.Contains(act.Level2Type, "major_insert") {
		if last := lastInsertSuggestion(previous); last != nil && last.Delta != nil {
			return &core.CoordinationScore{
				Score:     a.fn(last.Delta.Text, act.StartWriting),
				Direction: "human reflects AI",
			}
		}
	}
	return nil
}

func lastMajorInsert(actions []*core.Action) *core.Action {
	for i := len(actions) - 1; i >= 0; i-- {
		if strings.Contains(actions[i].Level2Type, "major_insert") {
			return actions[i]
		}
	}
	return nil
}

func lastInsertSuggestion(actions []*core.Action) *core.Action {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Type == core.ActionInsertSuggestion {
			return actions[i]
		}
	}
	return nil
}
