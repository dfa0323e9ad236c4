package core

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Sentences tokenizes text into sentences. Internal whitespace runs collapse
// to single spaces; a boundary is a run of `.?!` followed by a space or the
// end of text, with the punctuation kept on the preceding sentence. Trailing
// text without terminal punctuation counts as a sentence.
//
// Abbreviations and decimals mis-tokenize by design: downstream similarity
// thresholds were tuned against this exact tokenizer.
func Sentences(text string) []string {
	text = strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for i := 0; i < len(text); {
		if !isTerminal(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isTerminal(text[j]) {
			j++
		}
		if j >= len(text) || text[j] == ' ' {
			if sent := strings.TrimSpace(text[start:j]); sent != "" {
				out = append(out, sent)
			}
			start = j
		}
		i = j
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isTerminal(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

// SentenceMap assigns each distinct sentence a stable integer at first
// occurrence. It is scoped to one session for its whole lifetime: it grows
// monotonically, never shrinks, and insertion order encodes temporal
// discovery order. Serialized as an ordered array of sentences whose index
// is the assigned ID, so IDs survive process restarts.
type SentenceMap struct {
	index map[string]int
	order []string
}

// NewSentenceMap returns an empty map.
func NewSentenceMap() *SentenceMap {
	return &SentenceMap{index: make(map[string]int)}
}

// Len returns the number of sentences seen so far.
func (m *SentenceMap) Len() int { return len(m.order) }

// ID returns the index assigned to a sentence, if it has been seen.
func (m *SentenceMap) ID(sent string) (int, bool) {
	id, ok := m.index[sent]
	return id, ok
}

// Clone returns an independent copy.
func (m *SentenceMap) Clone() *SentenceMap {
	c := NewSentenceMap()
	c.order = append(c.order, m.order...)
	for s, id := range m.index {
		c.index[s] = id
	}
	return c
}

// Update tokenizes text, assigns IDs to sentences not seen before, and
// returns the newly seen sentences in encounter order together with every
// sentence present in text ordered by assigned ID (temporal order).
func (m *SentenceMap) Update(text string) (newlySeen, temporalOrder []string) {
	current := make(map[string]int)
	for _, sent := range Sentences(text) {
		id, ok := m.index[sent]
		if !ok {
			id = len(m.order)
			m.index[sent] = id
			m.order = append(m.order, sent)
			newlySeen = append(newlySeen, sent)
		}
		current[sent] = id
	}
	return newlySeen, sortByID(current)
}

// Preview computes the same result as Update without committing new
// sentences. Checkpoints use it so an open action's sentences are assigned
// for real only when the action finalizes, keeping streaming and batch runs
// in agreement.
func (m *SentenceMap) Preview(text string) (newlySeen, temporalOrder []string) {
	current := make(map[string]int)
	next := len(m.order)
	for _, sent := range Sentences(text) {
		id, ok := m.index[sent]
		if !ok {
			if pid, seen := current[sent]; seen {
				id = pid
			} else {
				id = next
				next++
				newlySeen = append(newlySeen, sent)
			}
		}
		current[sent] = id
	}
	return newlySeen, sortByID(current)
}

func sortByID(current map[string]int) []string {
	type entry struct {
		sent string
		id   int
	}
	entries := make([]entry, 0, len(current))
	for s, id := range current {
		entries = append(entries, entry{s, id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.sent
	}
	return out
}

// MarshalJSON encodes the map as its insertion-ordered sentence list.
func (m *SentenceMap) MarshalJSON() ([]byte, error) {
	if m.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.order)
}

// UnmarshalJSON rebuilds the map from an ordered sentence list.
func (m *SentenceMap) UnmarshalJSON(data []byte) error {
	var order []string
	if err := json.Unmarshal(data, &order); err != nil {
		return err
	}
	m.order = order
	m.index = make(map[string]int, len(order))
	for i, s := range order {
		m.index[s] = i
	}
	return nil
}

// SameSentenceEdit reports whether the edit from oldText to newText stays
// within one sentence. It diffs the sentence-tokenized texts: any pure
// sentence insertion or removal means the edit crossed a boundary; otherwise
// the edit is "same sentence" when it reduces to at most one sentence-level
// replacement.
func SameSentenceEdit(oldText, newText string) bool {
	a := Sentences(oldText)
	b := Sentences(newText)

	pairs := 0
	ai, bi := 0, 0
	for _, match := range lcsMatches(a, b) {
		da := match[0] - ai
		db := match[1] - bi
		if (da > 0) != (db > 0) {
			return false // pure insert or delete at sentence level
		}
		pairs += min(da, db)
		ai = match[0] + 1
		bi = match[1] + 1
	}
	da := len(a) - ai
	db := len(b) - bi
	if (da > 0) != (db > 0) {
		return false
	}
	pairs += min(da, db)

	return pairs <= 1
}

// lcsMatches returns index pairs (i, j) of a longest common subsequence of
// a and b, in order.
func lcsMatches(a, b []string) [][2]int {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}

	var matches [][2]int
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case a[i] == b[j]:
			matches = append(matches, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matches
}
