package parser

import (
	"time"

	"github.com/sonnes/lekhak/core"
)

// TinyDelete merges consecutive events of the same type and source into one
// action, regardless of sentence boundaries. Small user deletes still fold
// into an open insertion; a delete pushing the accumulated run past the
// threshold splits the insertion. Suggestion events follow the generic
// same-type rule rather than finalizing eagerly, so an open suggestion
// action can span a batch boundary.
type TinyDelete struct {
	// DeleteThreshold is the largest accumulated delete run (in
	// characters) that merges into an open insertion. Zero means
	// DefaultDeleteThreshold.
	DeleteThreshold int
}

func (m TinyDelete) threshold() int {
	if m.DeleteThreshold > 0 {
		return m.DeleteThreshold
	}
	return DefaultDeleteThreshold
}

// Parse consumes events, appending to the state in cp (which may be nil for
// a fresh session), and returns the finalized actions plus the checkpoint
// for the next batch.
func (m TinyDelete) Parse(events []core.RawEvent, cp *core.Checkpoint) ([]*core.Action, *core.Checkpoint) {
	r := newTinyRun(cp, m.threshold())
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

// tinyRun tracks the document as of the START of the open action; logs are
// applied to it only when the action finalizes.
type tinyRun struct {
	threshold int
	actions   []*core.Action

	curType    core.ActionType
	curSource  core.Source
	curLogs    []core.RawEvent
	curStart   time.Time
	startLogID int

	writing  string
	mask     string
	modified bool

	sentences *core.SentenceMap
	nextLogID int
	lastFinal *core.Action
}

func newTinyRun(cp *core.Checkpoint, threshold int) *tinyRun {
	r := &tinyRun{threshold: threshold, sentences: core.NewSentenceMap()}
	if cp == nil {
		return r
	}
	r.nextLogID = cp.NextLogID
	if cp.Sentences != nil {
		r.sentences = cp.Sentences
	}
	if !cp.Finalized && cp.Type != "" && len(cp.Logs) > 0 {
		r.curType = cp.Type
		r.curSource = cp.Source
		r.curLogs = cp.Logs
		r.curStart = cp.StartTime
		r.startLogID = cp.StartLogID
		r.writing = cp.StartWriting
		r.mask = cp.StartMask
		r.modified = cp.WritingModified
	} else {
		r.writing = cp.WritingAtSave
		r.mask = cp.MaskAtSave
	}
	return r
}

func (r *tinyRun) handle(ev core.RawEvent, id int) {
	typ, modified := core.Classify(ev)
	if typ == "" {
		return
	}

	if r.curType == "" {
		r.seed(normalizeType(typ), ev, id, modified)
		return
	}

	switch {
	case ev.EventSource != r.curSource:
		r.finalize()
		r.seed(normalizeType(typ), ev, id, modified)
	case typ == r.curType:
		r.accumulate(ev, modified)
	case r.curSource == core.SourceAPI:
		// A presented suggestion that the API then inserts is one action;
		// the insertion is what the action was about.
		if r.curType == core.ActionPresentSuggestion && typ == core.ActionInsertSuggestion {
			r.curType = core.ActionInsertSuggestion
		}
		r.accumulate(ev, modified)
	case typ == core.ActionTBD && r.curType == core.ActionDeleteText:
		r.accumulate(ev, modified)
	case typ == core.ActionTBD && r.curType == core.ActionInsertText:
		r.resolveDelete(ev, modified)
	default:
		r.finalize()
		r.seed(normalizeType(typ), ev, id, modified)
	}
}

// resolveDelete folds a user delete into the open insertion while the
// accumulated trailing run stays within the threshold; past it, the
// insertion is closed without the run and the run plus ev open a delete.
func (r *tinyRun) resolveDelete(ev core.RawEvent, modified bool) {
	runStart, runChars := trailingDeleteRun(r.curLogs)
	checkInvariantRun(runChars, r.threshold)

	if runChars+ev.DeleteCount() <= r.threshold {
		r.accumulate(ev, modified)
		return
	}
	if runStart == 0 {
		r.curType = core.ActionDeleteText
		r.accumulate(ev, modified)
		return
	}

	prefix := r.curLogs[:runStart]
	runLogs := append(append([]core.RawEvent(nil), r.curLogs[runStart:]...), ev)

	endWriting, endMask := core.ApplyEvents(r.writing, r.mask, prefix)
	delta := core.ExtractDelta(r.writing, prefix, r.curType)
	newly, temporal := r.sentences.Update(endWriting)
	a := &core.Action{
		Type:              r.curType,
		Source:            r.curSource,
		Logs:              prefix,
		StartLogID:        r.startLogID,
		StartTime:         r.curStart,
		EndTime:           prefix[len(prefix)-1].Time(),
		StartWriting:      r.writing,
		EndWriting:        endWriting,
		EndMask:           endMask,
		WritingModified:   r.modified,
		Delta:             delta,
		ModifiedSentences: newly,
		TemporalOrder:     temporal,
	}
	r.actions = append(r.actions, a)
	r.lastFinal = a

	r.curType = core.ActionDeleteText
	r.curLogs = runLogs
	r.curStart = runLogs[0].Time()
	r.startLogID += runStart
	r.writing, r.mask = endWriting, endMask
	r.modified = true
}

func (r *tinyRun) accumulate(ev core.RawEvent, modified bool) {
	r.curLogs = append(r.curLogs, ev)
	if modified {
		r.modified = true
	}
}

func (r *tinyRun) seed(typ core.ActionType, ev core.RawEvent, id int, modified bool) {
	r.curType = typ
	r.curSource = ev.EventSource
	r.curLogs = []core.RawEvent{ev}
	r.curStart = ev.Time()
	r.startLogID = id
	r.modified = modified
}

// finalize applies the open action's logs to the start-of-action document
// and emits it. Actions whose events never touched the document keep the
// document as-is and commit no sentences.
func (r *tinyRun) finalize() {
	if r.curType == "" || len(r.curLogs) == 0 {
		r.reset()
		return
	}
	typ := normalizeType(r.curType)
	endWriting, endMask := r.writing, r.mask
	var delta *core.Delta
	var newly, temporal []string
	if r.modified {
		delta = core.ExtractDelta(r.writing, r.curLogs, typ)
		endWriting, endMask = core.ApplyEvents(r.writing, r.mask, r.curLogs)
		newly, temporal = r.sentences.Update(endWriting)
	}
	a := &core.Action{
		Type:              typ,
		Source:            r.curSource,
		Logs:              r.curLogs,
		StartLogID:        r.startLogID,
		StartTime:         r.curStart,
		EndTime:           r.curLogs[len(r.curLogs)-1].Time(),
		StartWriting:      r.writing,
		EndWriting:        endWriting,
		EndMask:           endMask,
		WritingModified:   r.modified,
		Delta:             delta,
		ModifiedSentences: newly,
		TemporalOrder:     temporal,
	}
	r.actions = append(r.actions, a)
	r.lastFinal = a
	r.writing, r.mask = endWriting, endMask
	r.reset()
}

func (r *tinyRun) reset() {
	r.curType = ""
	r.curSource = ""
	r.curLogs = nil
	r.curStart = time.Time{}
	r.startLogID = 0
	r.modified = false
}

func (r *tinyRun) checkpoint(prev *core.Checkpoint, consumed int) *core.Checkpoint {
	if consumed == 0 {
		return prev
	}
	if r.curType != "" && len(r.curLogs) > 0 {
		typ := normalizeType(r.curType)
		watSave, masSave := r.writing, r.mask
		var delta *core.Delta
		var newly, temporal []string
		if r.modified {
			delta = core.ExtractDelta(r.writing, r.curLogs, typ)
			watSave, masSave = core.ApplyEvents(r.writing, r.mask, r.curLogs)
			newly, temporal = r.sentences.Preview(watSave)
		}
		return &core.Checkpoint{
			Type:              typ,
			Source:            r.curSource,
			Logs:              r.curLogs,
			StartLogID:        r.startLogID,
			StartTime:         r.curStart,
			StartWriting:      r.writing,
			StartMask:         r.mask,
			WritingModified:   r.modified,
			WritingAtSave:     watSave,
			MaskAtSave:        masSave,
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
