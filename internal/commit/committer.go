// Package commit turns a stream of overlapping, mutually inconsistent
// transcription hypotheses into a monotonically growing committed transcript.
package commit

import "strings"

// Config tunes the committer. Zero values fall back to defaults.
type Config struct {
	// HistoryLen is how many recent hypotheses must agree on a prefix
	// before it commits. Larger values trade latency for fewer retractions.
	HistoryLen int
	// MinCommitChars is the smallest delta worth releasing.
	MinCommitChars int
	// MinOverlapChars is the smallest suffix/prefix overlap accepted as
	// evidence that a disagreeing hypothesis is a shifted window rather
	// than noise.
	MinOverlapChars int
}

const (
	defaultHistoryLen      = 3
	defaultMinCommitChars  = 1
	defaultMinOverlapChars = 4
)

func (c Config) withDefaults() Config {
	if c.HistoryLen <= 0 {
		c.HistoryLen = defaultHistoryLen
	}
	if c.MinCommitChars <= 0 {
		c.MinCommitChars = defaultMinCommitChars
	}
	if c.MinOverlapChars <= 0 {
		c.MinOverlapChars = defaultMinOverlapChars
	}
	return c
}

// Committer tracks prefixes that stay stable across a short history window
// and only commits text once it stops changing. All character arithmetic is
// rune-based so thresholds stay codepoint-accurate in either language.
type Committer struct {
	cfg       Config
	history   [][]rune
	committed []rune
}

// NewCommitter returns a committer with empty committed state.
func NewCommitter(cfg Config) *Committer {
	return &Committer{cfg: cfg.withDefaults()}
}

// Reset drops all history and the committed prefix.
func (c *Committer) Reset() {
	c.history = c.history[:0]
	c.committed = c.committed[:0]
}

// Committed returns the transcript committed so far.
func (c *Committer) Committed() string { return string(c.committed) }

// Feed offers one hypothesis and returns the newly committed delta, empty
// when nothing new stabilized. Feed only ever extends the committed prefix,
// except when a drift correction truncates it to the overlap with the new
// window.
func (c *Committer) Feed(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return ""
	}

	if len(c.committed) > 0 && !hasPrefix(runes, c.committed) {
		// The window disagrees with what we already released. If its head
		// overlaps our tail the window has shifted past the committed text:
		// keep only the overlapping tail so growth can resume from there.
		// Otherwise treat the window as single-frame noise: keep the
		// committed prefix, restart the history, and let the next window
		// decide.
		if ov := overlap(c.committed, runes); ov >= c.cfg.MinOverlapChars {
			c.committed = c.committed[len(c.committed)-ov:]
		}
		c.history = c.history[:0]
	}

	c.history = append(c.history, runes)
	if len(c.history) > c.cfg.HistoryLen {
		c.history = c.history[1:]
	}

	stable := lcp(c.history)
	if len(stable) <= len(c.committed) {
		return ""
	}
	if len(stable)-len(c.committed) < c.cfg.MinCommitChars {
		return ""
	}

	delta := string(stable[len(c.committed):])
	c.committed = append(c.committed[:0], stable...)
	return delta
}

// Finalize accepts the window as authoritative, replacing the committed
// prefix wholesale, and returns whatever the caller has not yet seen. It is
// only called at natural boundaries (language switch, idle flush) where the
// full window should be trusted.
func (c *Committer) Finalize(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return ""
	}

	defer func() {
		c.history = c.history[:0]
		c.committed = append(c.committed[:0], runes...)
	}()

	if hasPrefix(runes, c.committed) {
		return string(runes[len(c.committed):])
	}
	if len(c.committed) > 0 {
		if ov := overlap(c.committed, runes); ov > 0 {
			return string(runes[ov:])
		}
	}
	return string(runes)
}

// lcp returns the longest common prefix across all history entries.
func lcp(items [][]rune) []rune {
	if len(items) == 0 {
		return nil
	}
	shortest := items[0]
	for _, s := range items[1:] {
		if len(s) < len(shortest) {
			shortest = s
		}
	}
	for i := range shortest {
		for _, s := range items {
			if s[i] != shortest[i] {
				return shortest[:i]
			}
		}
	}
	return shortest
}

// overlap returns the largest k such that the last k runes of left equal the
// first k runes of right.
func overlap(left, right []rune) int {
	max := len(left)
	if len(right) < max {
		max = len(right)
	}
	for size := max; size > 0; size-- {
		if equal(left[len(left)-size:], right[:size]) {
			return size
		}
	}
	return 0
}

func hasPrefix(s, prefix []rune) bool {
	return len(s) >= len(prefix) && equal(s[:len(prefix)], prefix)
}

func equal(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
