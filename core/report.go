package core

// Report is the per-session analysis result consumed by renderers: the
// annotated action stream plus aggregate stats and the final document state.
type Report struct {
	SessionID    string    `json:"session_id"`
	Actions      []*Action `json:"actions"`
	Stats        *Stats    `json:"stats,omitempty"`
	FinalWriting string    `json:"final_writing"`
	FinalMask    string    `json:"final_mask"`
}

// NewReport assembles a report from a session's annotated actions.
func NewReport(sessionID string, actions []*Action) *Report {
	r := &Report{
		SessionID: sessionID,
		Actions:   actions,
		Stats:     ComputeStats(actions),
	}
	if n := len(actions); n > 0 {
		r.FinalWriting = actions[n-1].EndWriting
		r.FinalMask = actions[n-1].EndMask
	}
	return r
}

// Transformer mutates a Report in place before rendering or export.
type Transformer interface {
	Transform(r *Report) error
}

// Chain applies transformers in order, stopping at the first error.
func Chain(r *Report, transformers ...Transformer) error {
	for _, tr := range transformers {
		if err := tr.Transform(r); err != nil {
			return err
		}
	}
	return nil
}
