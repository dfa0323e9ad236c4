package pattern

import (
	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/plugin"
)

// Evaluation window defaults: in streaming use every batch is checked
// against just its own most recent action.
const (
	DefaultWindowSize     = 1
	DefaultCountThreshold = 1
)

// Evaluate decides which interventions to surface. With fewer than window
// actions of history it returns nothing; otherwise it counts each plugin's
// label over the last window actions and returns, in registration order, the
// plugins whose count reaches the threshold.
func Evaluate(recent []*core.Action, plugins []plugin.Plugin, window, threshold int) []plugin.Plugin {
	if len(recent) < window {
		return nil
	}
	counts := make(map[string]int)
	for _, a := range recent[len(recent)-window:] {
		if a.Level3Type != "" {
			counts[a.Level3Type]++
		}
	}
	var out []plugin.Plugin
	for _, p := range plugins {
		if counts[p.Name()] >= threshold {
			out = append(out, p)
		}
	}
	return out
}
