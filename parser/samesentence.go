package parser

import (
	"time"

	"github.com/sonnes/lekhak/core"
)

// SameSentence merges consecutive events into one action while the edits
// stay inside a single sentence. Suggestion-lifecycle events always close
// the open action and become single-event actions; consecutive identical
// suggestion events coalesce into one. An insertion that starts a new
// sentence, or a delete that is large or crosses sentences, forces a split.
type SameSentence struct {
	// DeleteThreshold is the largest delete (in characters) that merges
	// into an open insertion. Zero means DefaultDeleteThreshold.
	DeleteThreshold int
}

func (m SameSentence) threshold() int {
	if m.DeleteThreshold > 0 {
		return m.DeleteThreshold
	}
	return DefaultDeleteThreshold
}

// Parse consumes events, appending to the state in cp (which may be nil for
// a fresh session), and returns the finalized actions plus the checkpoint
// for the next batch.
func (m SameSentence) Parse(events []core.RawEvent, cp *core.Checkpoint) ([]*core.Action, *core.Checkpoint) {
	r := newRun(cp, m.threshold())
	consumed := 0
	for _, ev := range events {
		if ev.EventName == savingWordEvent {
			continue
		}
		id := r.nextLogID
		r.nextLogID++
		consumed++
		r.handle(ev, id)
	}
	return r.actions, r.checkpoint(cp, consumed)
}

// run is the mutable state of one same-sentence parse: the running document
// and mask, the open action, and the session's sentence identity map.
type run struct {
	threshold int
	actions   []*core.Action

	// open action; openType == "" means nothing is open.
	openType        core.ActionType
	openSource      core.Source
	openLogs        []core.RawEvent
	startTime       time.Time
	startLogID      int
	startWriting    string
	startMask       string
	writingModified bool

	writing   string
	mask      string
	sentences *core.SentenceMap
	nextLogID int

	// lastSuggestion coalesces repeated identical suggestion events; any
	// non-suggestion event clears it.
	lastSuggestion core.ActionType

	// lastFinal backs the checkpoint when the batch ends with nothing
	// open, so Complete still reproduces the final action.
	lastFinal *core.Action
}

func newRun(cp *core.Checkpoint, threshold int) *run {
	r := &run{threshold: threshold, sentences: core.NewSentenceMap()}
	if cp == nil {
		return r
	}
	r.writing = cp.WritingAtSave
	r.mask = cp.MaskAtSave
	r.nextLogID = cp.NextLogID
	if cp.Sentences != nil {
		r.sentences = cp.Sentences
	}
	if cp.Finalized {
		if cp.Type.IsSuggestion() {
			r.lastSuggestion = cp.Type
		}
		return r
	}
	if cp.Type != "" && len(cp.Logs) > 0 {
		r.openType = cp.Type
		r.openSource = cp.Source
		r.openLogs = cp.Logs
		r.startTime = cp.StartTime
		r.startLogID = cp.StartLogID
		r.startWriting = cp.StartWriting
		r.startMask = cp.StartMask
		r.writingModified = cp.WritingModified
	}
	return r
}

func (r *run) handle(ev core.RawEvent, id int) {
	typ, modified := core.Classify(ev)
	if typ == "" {
		// Unrecognized events consume a log ID but neither finalize nor
		// join the open action.
		return
	}

	if typ.IsSuggestion() {
		if typ == r.lastSuggestion {
			return
		}
		if r.openType != "" {
			r.finalize()
		}
		r.emitSuggestion(typ, ev, id)
		r.lastSuggestion = typ
		return
	}
	r.lastSuggestion = ""

	switch typ {
	case core.ActionCursorOperation:
		// Cursor activity seeds an insertion context so the keystrokes
		// that follow inherit its start time and position.
		if r.openType == "" {
			r.seed(core.ActionInsertText, ev, id)
		} else {
			r.openLogs = append(r.openLogs, ev)
		}
		if modified {
			r.writingModified = true
		}
	case core.ActionInsertText:
		r.handleInsert(ev, id, modified)
	case core.ActionTBD:
		r.handleDelete(ev, id)
	}
}

func (r *run) handleInsert(ev core.RawEvent, id int, modified bool) {
	newWriting, newMask := core.ApplyEvents(r.writing, r.mask, []core.RawEvent{ev})
	same := core.SameSentenceEdit(r.writing, newWriting)

	switch {
	case r.openType == core.ActionInsertText && same:
		r.openLogs = append(r.openLogs, ev)
	case r.openType == "":
		r.seed(core.ActionInsertText, ev, id)
	default:
		// New sentence, or an open delete: close it and start fresh.
		r.finalize()
		r.seed(core.ActionInsertText, ev, id)
	}
	if modified {
		r.writingModified = true
	}
	r.writing, r.mask = newWriting, newMask
}

// handleDelete resolves a TBD user delete by look-back: deletes accumulate
// into an open delete action; small same-sentence deletes merge into an
// open insertion; anything else splits, carrying any trailing small-delete
// run out of the insertion into the new delete action.
func (r *run) handleDelete(ev core.RawEvent, id int) {
	count := ev.DeleteCount()
	newWriting, newMask := core.ApplyEvents(r.writing, r.mask, []core.RawEvent{ev})

	switch {
	case r.openType == core.ActionDeleteText:
		r.openLogs = append(r.openLogs, ev)
	case r.openType == core.ActionInsertText:
		same := core.SameSentenceEdit(r.writing, newWriting)
		if count <= r.threshold && same {
			r.openLogs = append(r.openLogs, ev)
		} else {
			r.splitForDelete(ev)
		}
	default:
		if r.openType != "" {
			r.finalize()
		}
		r.seed(core.ActionDeleteText, ev, id)
	}
	r.writingModified = true
	r.writing, r.mask = newWriting, newMask
}

// splitForDelete closes the open insertion minus its trailing run of small
// user deletes, then opens a delete action made of that run plus ev. The
// run belongs with the delete: those keystrokes were the lead-in to it.
func (r *run) splitForDelete(ev core.RawEvent) {
	runStart, runChars := trailingDeleteRun(r.openLogs)
	checkInvariantRun(runChars, r.threshold)

	if runStart == 0 {
		// The open action is nothing but deletes; just reclassify it.
		r.openType = core.ActionDeleteText
		r.openLogs = append(r.openLogs, ev)
		return
	}

	prefix := r.openLogs[:runStart]
	runLogs := append(append([]core.RawEvent(nil), r.openLogs[runStart:]...), ev)

	endWriting, endMask := core.ApplyEvents(r.startWriting, r.startMask, prefix)
	delta := core.ExtractDelta(r.startWriting, prefix, r.openType)
	newly, temporal := r.sentences.Update(endWriting)
	a := &core.Action{
		Type:              r.openType,
		Source:            r.openSource,
		Logs:              prefix,
		StartLogID:        r.startLogID,
		StartTime:         r.startTime,
		EndTime:           prefix[len(prefix)-1].Time(),
		StartWriting:      r.startWriting,
		EndWriting:        endWriting,
		EndMask:           endMask,
		WritingModified:   true,
		Delta:             delta,
		ModifiedSentences: newly,
		TemporalOrder:     temporal,
	}
	r.actions = append(r.actions, a)
	r.lastFinal = a

	r.openType = core.ActionDeleteText
	r.openLogs = runLogs
	r.startTime = runLogs[0].Time()
	r.startLogID += runStart
	r.startWriting = endWriting
	r.startMask = endMask
	r.writingModified = true
}

// emitSuggestion finalizes a suggestion-lifecycle event as its own action.
// Only insert_suggestion changes the document.
func (r *run) emitSuggestion(typ core.ActionType, ev core.RawEvent, id int) {
	startWriting := r.writing
	var delta *core.Delta
	var newly, temporal []string
	if typ == core.ActionInsertSuggestion {
		delta = core.ExtractDelta(r.writing, []core.RawEvent{ev}, typ)
		r.writing, r.mask = core.ApplyEvents(r.writing, r.mask, []core.RawEvent{ev})
		newly, temporal = r.sentences.Update(r.writing)
	} else {
		_, temporal = r.sentences.Update(r.writing)
	}
	ts := ev.Time()
	a := &core.Action{
		Type:              typ,
		Source:            ev.EventSource,
		Logs:              []core.RawEvent{ev},
		StartLogID:        id,
		StartTime:         ts,
		EndTime:           ts,
		StartWriting:      startWriting,
		EndWriting:        r.writing,
		EndMask:           r.mask,
		WritingModified:   true,
		Delta:             delta,
		ModifiedSentences: newly,
		TemporalOrder:     temporal,
	}
	r.actions = append(r.actions, a)
	r.lastFinal = a
}

func (r *run) seed(typ core.ActionType, ev core.RawEvent, id int) {
	r.openType = typ
	r.openSource = ev.EventSource
	r.openLogs = []core.RawEvent{ev}
	r.startTime = ev.Time()
	r.startLogID = id
	r.startWriting = r.writing
	r.startMask = r.mask
	r.writingModified = ev.Modified()
}

// finalize closes the open action against the running document state and
// commits its sentences.
func (r *run) finalize() {
	if r.openType == "" || len(r.openLogs) == 0 {
		r.resetOpen()
		return
	}
	typ := normalizeType(r.openType)
	delta := core.ExtractDelta(r.startWriting, r.openLogs, typ)
	newly, temporal := r.sentences.Update(r.writing)
	a := &core.Action{
		Type:              typ,
		Source:            r.openSource,
		Logs:              r.openLogs,
		StartLogID:        r.startLogID,
		StartTime:         r.startTime,
		EndTime:           r.openLogs[len(r.openLogs)-1].Time(),
		StartWriting:      r.startWriting,
		EndWriting:        r.writing,
		EndMask:           r.mask,
		WritingModified:   true,
		Delta:             delta,
		ModifiedSentences: newly,
		TemporalOrder:     temporal,
	}
	r.actions = append(r.actions, a)
	r.lastFinal = a
	r.resetOpen()
}

func (r *run) resetOpen() {
	r.openType = ""
	r.openSource = ""
	r.openLogs = nil
	r.startTime = time.Time{}
	r.startLogID = 0
	r.startWriting = ""
	r.startMask = ""
	r.writingModified = false
}

// checkpoint snapshots the run. Open actions are previewed against the
// sentence map without committing, so re-finalizing the same action from
// the checkpoint in a later batch produces identical sentence IDs.
func (r *run) checkpoint(prev *core.Checkpoint, consumed int) *core.Checkpoint {
	if consumed == 0 {
		return prev
	}
	if r.openType != "" && len(r.openLogs) > 0 {
		typ := normalizeType(r.openType)
		delta := core.ExtractDelta(r.startWriting, r.openLogs, typ)
		newly, temporal := r.sentences.Preview(r.writing)
		return &core.Checkpoint{
			Type:              typ,
			Source:            r.openSource,
			Logs:              r.openLogs,
			StartLogID:        r.startLogID,
			StartTime:         r.startTime,
			StartWriting:      r.startWriting,
			StartMask:         r.startMask,
			WritingModified:   r.writingModified,
			WritingAtSave:     r.writing,
			MaskAtSave:        r.mask,
			DeltaAtSave:       delta,
			Sentences:         r.sentences,
			ModifiedSentences: newly,
			TemporalOrder:     temporal,
			NextLogID:         r.nextLogID,
		}
	}
	if a := r.lastFinal; a != nil {
		return &core.Checkpoint{
			Type:              a.Type,
			Source:            a.Source,
			Logs:              a.Logs,
			StartLogID:        a.StartLogID,
			StartTime:         a.StartTime,
			StartWriting:      a.StartWriting,
			StartMask:         r.mask,
			WritingModified:   a.WritingModified,
			WritingAtSave:     r.writing,
			MaskAtSave:        r.mask,
			DeltaAtSave:       a.Delta,
			Sentences:         r.sentences,
			ModifiedSentences: a.ModifiedSentences,
			TemporalOrder:     a.TemporalOrder,
			Finalized:         true,
			NextLogID:         r.nextLogID,
		}
	}
	// Everything in the batch was skipped; carry the prior checkpoint
	// forward with the advanced log counter.
	if prev != nil {
		cp := *prev
		cp.NextLogID = r.nextLogID
		return &cp
	}
	return &core.Checkpoint{
		Finalized:     true,
		Sentences:     r.sentences,
		WritingAtSave: r.writing,
		MaskAtSave:    r.mask,
		NextLogID:     r.nextLogID,
	}
}
