package dialog

import (
	"strings"
	"time"

	"agentusage/internal/termio"
)

// Writer is the subset of termio.Session's interface the dismisser needs,
// kept narrow so tests can fake it without a real PTY.
type Writer interface {
	WriteKey(k termio.Key) error
	WriteLiteral(b []byte) error
	CapturePane() string
}

// Dismiss sends the canonical dismissal sequence for kind on the given
// provider. It reports whether the prompt was (or should be considered)
// cleared; callers re-check the prompt/data predicate afterward regardless.
func Dismiss(w Writer, provider string, k Kind) bool {
	if !k.Dismissible() {
		return false
	}

	if provider == "codex" && k == UpdatePrompt {
		w.WriteKey(termio.KeyEsc)
		time.Sleep(250 * time.Millisecond)
		if strings.Contains(w.CapturePane(), "? for shortcuts") {
			return true
		}
		normalized := Normalize(w.CapturePane())
		if strings.Contains(normalized, "2.skip") {
			w.WriteLiteral([]byte("2"))
			w.WriteKey(termio.KeyEnter)
			time.Sleep(400 * time.Millisecond)
			return true
		}
		w.WriteKey(termio.KeyDown)
		w.WriteKey(termio.KeyEnter)
		return true
	}

	if k == UpdatePrompt {
		w.WriteKey(termio.KeyEsc)
		return true
	}

	w.WriteKey(termio.KeyEnter)
	time.Sleep(1 * time.Second)
	return true
}

// Normalize strips whitespace and lowercases, matching the normalized
// capture comparisons used to recognize hint rows and numbered menu
// options. Shared with internal/provider's own normalized-capture checks.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
