// Package session drives the streaming per-request flow. Each session owns
// its own checkpoint, action history, and annotation trackers; there is no
// ambient registry and no locking — one goroutine per session, calls
// strictly ordered.
package session

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/parser"
	"github.com/sonnes/lekhak/pattern"
	"github.com/sonnes/lekhak/plugin"
	"github.com/sonnes/lekhak/semantic"
	"github.com/sonnes/lekhak/similarity"
)

// Session is one writing session's accumulated analysis state.
type Session struct {
	ID         string
	Checkpoint *core.Checkpoint
	Actions    []*core.Action

	sem *semantic.Tracker
	pat *pattern.Tracker
}

// Analyzer processes event batches session by session. It holds only
// read-only configuration, so distinct sessions may be processed from
// distinct goroutines.
type Analyzer struct {
	merger    parser.Merger
	annotator *semantic.Annotator
	fn        similarity.Func
	plugins   []plugin.Plugin
	window    int
	threshold int
}

func NewAnalyzer(m parser.Merger, fn similarity.Func, plugins []plugin.Plugin, window, threshold int) *Analyzer {
	return &Analyzer{
		merger:    m,
		annotator: semantic.NewAnnotator(fn),
		fn:        fn,
		plugins:   plugins,
		window:    window,
		threshold: threshold,
	}
}

// NewSession creates a session with fresh trackers. An empty id gets a
// generated UUID.
func (a *Analyzer) NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:  id,
		sem: a.annotator.NewTracker(),
		pat: pattern.NewTracker(a.fn, a.plugins),
	}
}

// Result is what one processed batch produced.
type Result struct {
	// Actions are the newly finalized, fully annotated actions. They have
	// already been appended to the session history.
	Actions []*core.Action

	// Pending is the open action completed from the checkpoint for
	// immediate inspection, annotated against a throwaway copy of the
	// trackers. It is NOT part of the session history: the next batch may
	// still extend it. Nil when nothing is open.
	Pending *core.Action

	// Interventions are the plugins whose detections crossed the
	// threshold inside the evaluation window for this batch.
	Interventions []plugin.Plugin
}

// Process parses one event batch against the session checkpoint, annotates
// the finalized actions through levels 2 and 3, previews the open action,
// and evaluates interventions over the batch. Calls for one session must be
// strictly ordered; the checkpoint threading is the contract.
func (a *Analyzer) Process(s *Session, events []core.RawEvent) *Result {
	actions, cp := a.merger.Parse(events, s.Checkpoint)
	s.Checkpoint = cp

	for _, act := range actions {
		act.Level1Type = act.Type
		s.sem.Annotate(act)
		s.pat.Annotate(act)
	}
	s.Actions = append(s.Actions, actions...)

	var pending *core.Action
	if cp != nil && !cp.Finalized {
		if pending = cp.Complete(); pending != nil {
			pending.Level1Type = pending.Type
			a.annotatePreview(s, pending)
		}
	}

	recent := actions
	if pending != nil {
		recent = append(append([]*core.Action(nil), actions...), pending)
	}

	return &Result{
		Actions:       actions,
		Pending:       pending,
		Interventions: pattern.Evaluate(recent, a.plugins, a.window, a.threshold),
	}
}

// annotatePreview annotates a provisional action on cloned trackers: when
// the action later re-finalizes with more events, the real trackers must
// see it exactly once.
func (a *Analyzer) annotatePreview(s *Session, act *core.Action) {
	s.sem.Clone().Annotate(act)
	s.pat.Clone().Annotate(act)
}

// LatestSuggestion exposes the most recently accepted AI suggestion text
// tracked for this session.
func (s *Session) LatestSuggestion() string {
	if s.pat == nil {
		return ""
	}
	return s.pat.LatestSuggestion()
}

// Store holds sessions by ID. It is not synchronized; the caller owns the
// concurrency model (the intended one is a single dispatching goroutine).
type Store struct {
	analyzer *Analyzer
	sessions map[string]*Session
}

func NewStore(a *Analyzer) *Store {
	return &Store{analyzer: a, sessions: make(map[string]*Session)}
}

// Create starts a session under a fresh UUID.
func (st *Store) Create() *Session {
	s := st.analyzer.NewSession("")
	st.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID, if present.
func (st *Store) Get(id string) (*Session, bool) {
	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given ID, creating it on first
// use.
func (st *Store) GetOrCreate(id string) *Session {
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := st.analyzer.NewSession(id)
	st.sessions[s.ID] = s
	return s
}

// IDs returns the stored session IDs in sorted order.
func (st *Store) IDs() []string {
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
