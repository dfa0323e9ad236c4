// Package redact strips captured prose from reports before export. Session
// logs contain the writer's actual text, so reports leaving the analysis
// host can blank content wholesale or apply targeted rules.
package redact

import (
	"regexp"
	"sort"
	"unicode"

	"github.com/sonnes/lekhak/core"
)

// Config controls which rules the Redactor applies.
type Config struct {
	// Blank replaces every letter and digit with 'x', preserving string
	// lengths so provenance masks stay aligned with the text.
	Blank bool

	// PII applies the targeted rules (emails, phone numbers, URLs).
	PII bool

	ExtraRules []Rule
	Allowlist  []string // regex patterns to skip
}

// Redactor applies redaction rules to all captured text in a Report.
type Redactor struct {
	blank     bool
	rules     []Rule
	allowlist []*regexp.Regexp
}

// New creates a Redactor from the given config.
func New(cfg Config) *Redactor {
	var rules []Rule
	if cfg.PII {
		rules = append(rules, PIIRules()...)
	}
	rules = append(rules, cfg.ExtraRules...)

	allowlist := make([]*regexp.Regexp, 0, len(cfg.Allowlist))
	for _, pattern := range cfg.Allowlist {
		if re, err := regexp.Compile(pattern); err == nil {
			allowlist = append(allowlist, re)
		}
	}

	return &Redactor{blank: cfg.Blank, rules: rules, allowlist: allowlist}
}

// Transform redacts the report in place. Masks, counts, and timings are
// left untouched.
func (r *Redactor) Transform(rep *core.Report) error {
	for _, a := range rep.Actions {
		r.redactAction(a)
	}
	rep.FinalWriting = r.redactString(rep.FinalWriting)
	return nil
}

func (r *Redactor) redactAction(a *core.Action) {
	a.StartWriting = r.redactString(a.StartWriting)
	a.EndWriting = r.redactString(a.EndWriting)
	if a.Delta != nil {
		a.Delta.Text = r.redactString(a.Delta.Text)
	}
	r.redactStrings(a.ModifiedSentences)
	r.redactStrings(a.TemporalOrder)

	for i := range a.Logs {
		r.redactEvent(&a.Logs[i])
	}
	if info := a.Level2Info; info != nil {
		r.redactStrings(info.SentsBeforeAction)
		r.redactStrings(info.SentsAfterAction)
	}
	if info := a.Level3Info; info != nil {
		info.FirstSentenceWritten = r.redactString(info.FirstSentenceWritten)
		info.LatestSuggestion = r.redactString(info.LatestSuggestion)
		r.redactStrings(info.ModifiedSentences)
	}
}

func (r *Redactor) redactEvent(e *core.RawEvent) {
	if e.TextDelta == nil {
		return
	}
	for i, op := range e.TextDelta.Ops {
		if op.Insert != nil {
			redacted := r.redactString(*op.Insert)
			e.TextDelta.Ops[i].Insert = &redacted
		}
	}
}

func (r *Redactor) redactStrings(ss []string) {
	for i, s := range ss {
		ss[i] = r.redactString(s)
	}
}

// redactString applies the targeted rules, then blanking. Overlapping rule
// matches resolve to earliest start, then longest. Allowlisted values are
// skipped.
func (r *Redactor) redactString(s string) string {
	if len(s) == 0 {
		return s
	}

	type replacement struct {
		start int
		end   int
		text  string
	}

	var reps []replacement
	for _, rule := range r.rules {
		for _, m := range rule.Detect(s) {
			if r.isAllowed(m.Value) {
				continue
			}
			reps = append(reps, replacement{
				start: m.Start,
				end:   m.End,
				text:  rule.Replacement(m),
			})
		}
	}

	if len(reps) > 0 {
		sort.Slice(reps, func(i, j int) bool {
			if reps[i].start != reps[j].start {
				return reps[i].start < reps[j].start
			}
			return reps[i].end > reps[j].end
		})

		var result []byte
		pos := 0
		for _, rep := range reps {
			if rep.start < pos {
				continue // overlaps with a previous replacement
			}
			result = append(result, s[pos:rep.start]...)
			result = append(result, rep.text...)
			pos = rep.end
		}
		result = append(result, s[pos:]...)
		s = string(result)
	}

	if r.blank {
		s = blankString(s)
	}
	return s
}

// blankString keeps whitespace and punctuation so sentence structure stays
// visible, replacing letters and digits only. ASCII input keeps its byte
// length, which is what the masks index.
func blankString(s string) string {
	out := []rune(s)
	for i, c := range out {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			out[i] = 'x'
		}
	}
	return string(out)
}

func (r *Redactor) isAllowed(value string) bool {
	for _, re := range r.allowlist {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
