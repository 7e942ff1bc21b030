package termio

import (
	"time"
)

// WaitResult reports how WaitFor concluded.
type WaitResult struct {
	Matched     bool
	ChildExited bool
	ExitCode    int
	ShutDown    bool
	LastCapture string
}

// WaitFor polls CapturePane at interval until predicate reports a match,
// the child exits, the process-wide shutdown flag is raised, or timeout
// elapses. It never blocks past timeout and never panics on a dead child.
func (s *Session) WaitFor(predicate func(capture string) bool, timeout, interval time.Duration) WaitResult {
	deadline := time.Now().Add(timeout)
	var last string
	for {
		last = s.CapturePane()
		if predicate(last) {
			return WaitResult{Matched: true, LastCapture: last}
		}
		if code, ok := s.TryWait(); ok {
			last = s.CapturePane()
			return WaitResult{ChildExited: true, ExitCode: code, LastCapture: last}
		}
		if ShutdownRequested() {
			return WaitResult{ShutDown: true, LastCapture: last}
		}
		if time.Now().After(deadline) {
			return WaitResult{LastCapture: last}
		}
		time.Sleep(interval)
	}
}

// WaitForStable polls CapturePane at interval until it returns the same
// non-empty text on `stabilize` consecutive ticks, or until timeout/child
// exit/shutdown. A screen is "stabilized" once synthetic input has
// stopped changing it, the signal a TUI driver uses in place of a
// well-defined "done" event.
func (s *Session) WaitForStable(stabilize int, timeout, interval time.Duration) WaitResult {
	deadline := time.Now().Add(timeout)
	var prev string
	streak := 0
	for {
		cur := s.CapturePane()
		if cur != "" && cur == prev {
			streak++
			if streak >= stabilize {
				return WaitResult{Matched: true, LastCapture: cur}
			}
		} else {
			streak = 0
		}
		prev = cur

		if code, ok := s.TryWait(); ok {
			return WaitResult{ChildExited: true, ExitCode: code, LastCapture: s.CapturePane()}
		}
		if ShutdownRequested() {
			return WaitResult{ShutDown: true, LastCapture: cur}
		}
		if time.Now().After(deadline) {
			return WaitResult{LastCapture: cur}
		}
		time.Sleep(interval)
	}
}
