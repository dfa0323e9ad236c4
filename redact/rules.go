package redact

import (
	"fmt"
	"regexp"
)

// Rule detects sensitive data in a string and provides a replacement.
type Rule interface {
	Name() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match represents a detected occurrence within a string.
type Match struct {
	Start int
	End   int
	Value string
}

type regexRule struct {
	name    string
	pattern *regexp.Regexp
}

func (r *regexRule) Name() string { return r.name }

func (r *regexRule) Detect(s string) []Match {
	locs := r.pattern.FindAllStringIndex(s, -1)
	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Start: loc[0], End: loc[1], Value: s[loc[0]:loc[1]]}
	}
	return matches
}

func (r *regexRule) Replacement(_ Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// NewRegexRule builds a rule from a pattern, for host-supplied additions.
func NewRegexRule(name, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", name, err)
	}
	return &regexRule{name: name, pattern: re}, nil
}

// PIIRules returns the built-in PII detection rules. Writers paste their
// own contact details into drafts more often than anything else.
func PIIRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "email",
			pattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		},
		&regexRule{
			name:    "phone",
			pattern: regexp.MustCompile(`(?:\+\d{1,3}[\s\-]?)?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{4}`),
		},
		&regexRule{
			name:    "url",
			pattern: regexp.MustCompile(`https?://[^\s"'` + "`" + `]+`),
		},
	}
}
