// Package pipeline runs the offline batch flow: parse every session's full
// event log, annotate levels 1 through 3, optionally relabel by priority,
// and aggregate stats into per-session reports. Sessions share no mutable
// state, so they are processed one worker per session.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/parser"
	"github.com/sonnes/lekhak/pattern"
	"github.com/sonnes/lekhak/plugin"
	"github.com/sonnes/lekhak/semantic"
	"github.com/sonnes/lekhak/similarity"
)

// Options configures a batch run. Zero values select the same-sentence
// merger and the built-in lexical similarity.
type Options struct {
	Merger     parser.Merger
	Similarity similarity.Func
	Plugins    []plugin.Plugin

	// Priority, when set, relabels each action's type to the first entry
	// matching any of its level 1/2/3 labels.
	Priority []string
}

// Run analyzes every session to completion and returns a report per
// session ID.
func Run(ctx context.Context, sessions map[string][]core.RawEvent, opts Options) (map[string]*core.Report, error) {
	if opts.Merger == nil {
		opts.Merger = parser.SameSentence{}
	}
	if opts.Similarity == nil {
		opts.Similarity = similarity.Lexical
	}

	reports := make(map[string]*core.Report, len(sessions))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for id, events := range sessions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report := analyzeSession(id, events, opts)
			mu.Lock()
			reports[id] = report
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// analyzeSession runs one session start to finish: level 1 parse with the
// open action completed as a terminal action, then levels 2 and 3, then the
// optional priority relabel.
func analyzeSession(id string, events []core.RawEvent, opts Options) *core.Report {
	fn := similarity.Memoized(opts.Similarity)

	actions, cp := opts.Merger.Parse(events, nil)
	if cp != nil && !cp.Finalized {
		if last := cp.Complete(); last != nil {
			actions = append(actions, last)
		}
	}
	for _, a := range actions {
		a.Level1Type = a.Type
	}

	semantic.NewAnnotator(fn).AnnotateAll(actions)
	pattern.AnnotateAll(actions, fn, opts.Plugins)
	ApplyPriority(actions, opts.Priority)

	return core.NewReport(id, actions)
}

// ApplyPriority reassigns each action's type to the first priority entry
// matching any of its level labels. An empty priority list is a no-op; the
// merge result survives in Level1Type either way.
func ApplyPriority(actions []*core.Action, priority []string) {
	if len(priority) == 0 {
		return
	}
	for _, a := range actions {
		for _, p := range priority {
			if string(a.Level1Type) == p || a.Level2Type == p || a.Level3Type == p {
				a.Type = core.ActionType(p)
				break
			}
		}
	}
}
