// Package provider sequences each AI assistant's CLI through its own
// startup-handshake, command, and data-capture choreography, returning a
// normalized internal/usage.Data. Grounded on internal/agent's pattern of
// driving Claude/Codex/Gemini as distinct per-provider values rather than
// subclasses of a shared base type. The same shape is kept here even
// though the underlying mechanism changes from JSON-stream reading to
// PTY/TUI driving (see DESIGN.md).
package provider

import (
	"fmt"
	"os/exec"
	"time"

	"agentusage/internal/dialog"
	"agentusage/internal/errtag"
	"agentusage/internal/logger"
	"agentusage/internal/termio"
	"agentusage/internal/usage"
)

// Session is the subset of termio.Session a driver needs; *termio.Session
// satisfies it structurally, and fake implementations back the tests.
type Session interface {
	WriteLiteral(b []byte) error
	WriteKey(k termio.Key) error
	CapturePane() string
	WaitFor(predicate func(string) bool, timeout, interval time.Duration) termio.WaitResult
	WaitForStable(stabilize int, timeout, interval time.Duration) termio.WaitResult
	TryWait() (int, bool)
}

const pollInterval = 500 * time.Millisecond
const stabilizeWindow = 2 * time.Second

// promptReadyTimeout is the fixed 30s ceiling Claude/Codex use. It is a
// var, not a const, so tests can shrink it instead of waiting out the
// real 30s.
var promptReadyTimeout = 30 * time.Second

// Spec describes one provider's staged protocol: binary, launch args,
// prompt-ready/data-visible predicates, dialog detector, command
// sequence, and parser.
type Spec struct {
	Name   string
	Binary string
	Args   []string
	// Dir, when set, runs the provider CLI from this working directory
	// instead of the caller's cwd.
	Dir string
	// DebugCapture mirrors the session's raw PTY bytes to a temp file
	// when --verbose is set.
	DebugCapture bool
	PromptReady  func(capture string) bool
	DataVisible  func(capture string) bool
	Detect       func(capture string) dialog.Kind
	// IssueCommand writes the provider's command sequence and handles any
	// mid-wait nudges/fallbacks particular to that provider. It returns
	// once the data-visible predicate is expected to eventually match.
	IssueCommand func(s Session, detect func(string) dialog.Kind, policy usage.ApprovalPolicy, dataTimeout time.Duration) error
	Parse        func(capture string, now time.Time) usage.Data
	// PromptReadyUsesDataTimeout is set for Gemini: its prompt-ready wait
	// ceiling is the caller's --timeout rather than the fixed 30s
	// Claude/Codex use, because auth/extension loading can legitimately
	// take longer.
	PromptReadyUsesDataTimeout bool
}

// NewSession is overridable for testing; production code always spawns a
// real termio.Session.
var NewSession = func(binary string, args []string, dir string, debugCapture bool) (*termio.Session, error) {
	return termio.New(binary, args, termio.Options{Dir: dir, DebugCapture: debugCapture})
}

// Run executes one provider's full staged protocol and returns its parsed
// usage data, or a tagged error.
func Run(spec Spec, policy usage.ApprovalPolicy, dataTimeout time.Duration, now time.Time) (usage.Data, error) {
	if _, err := exec.LookPath(spec.Binary); err != nil {
		return usage.Data{}, errtag.New(errtag.ToolMissing, fmt.Sprintf("%s CLI not found on PATH", spec.Binary))
	}

	sess, err := NewSession(spec.Binary, spec.Args, spec.Dir, spec.DebugCapture)
	if err != nil {
		return usage.Data{}, errtag.Wrap(errtag.General, fmt.Sprintf("failed to launch %s", spec.Name), err)
	}
	defer sess.Close()
	if sess.DebugPath != "" {
		logger.Debug("mirroring raw PTY bytes", "provider", spec.Name, "path", sess.DebugPath)
	}

	return runWithSession(spec, sess, policy, dataTimeout, now)
}

func runWithSession(spec Spec, sess Session, policy usage.ApprovalPolicy, dataTimeout time.Duration, now time.Time) (usage.Data, error) {
	if err := waitPromptReady(spec, sess, policy, dataTimeout); err != nil {
		return usage.Data{}, err
	}

	sess.WaitForStable(3, stabilizeWindow, pollInterval)

	if err := spec.IssueCommand(sess, spec.Detect, policy, dataTimeout); err != nil {
		return usage.Data{}, err
	}

	res := sess.WaitFor(spec.DataVisible, dataTimeout, pollInterval)
	firstVisible := res.LastCapture
	if !res.Matched {
		if res.ShutDown {
			return usage.Data{}, errtag.New(errtag.Timeout, fmt.Sprintf("%s interrupted by shutdown", spec.Name))
		}
		return usage.Data{}, errtag.New(errtag.Timeout, fmt.Sprintf("%s did not show usage data within %s", spec.Name, dataTimeout))
	}

	stable := sess.WaitForStable(3, stabilizeWindow, pollInterval)
	stabilized := stable.LastCapture
	if stabilized == "" {
		stabilized = firstVisible
	}

	final := usage.PickRicher(spec.Parse(stabilized, now), spec.Parse(firstVisible, now))
	if len(final.Entries) == 0 {
		return usage.Data{}, errtag.New(errtag.ParseFailure, fmt.Sprintf("no usage entries recognized in %s output", spec.Name))
	}
	return final, nil
}

func waitPromptReady(spec Spec, sess Session, policy usage.ApprovalPolicy, dataTimeout time.Duration) error {
	if spec.PromptReadyUsesDataTimeout {
		return waitPromptReadyWithWatchdog(spec, sess, policy, dataTimeout)
	}

	res := sess.WaitFor(spec.PromptReady, promptReadyTimeout, pollInterval)
	if res.Matched {
		return nil
	}
	if res.ShutDown {
		return errtag.New(errtag.Timeout, fmt.Sprintf("%s interrupted by shutdown", spec.Name))
	}

	kind := spec.Detect(res.LastCapture)
	if kind == dialog.None {
		return errtag.New(errtag.Timeout, fmt.Sprintf("%s did not reach a ready prompt within %s", spec.Name, promptReadyTimeout))
	}
	logger.Debug("dialog detected during prompt-ready wait", "provider", spec.Name, "kind", kind.String())
	if err := handleDialog(spec.Name, sess, kind, policy); err != nil {
		return err
	}

	res = sess.WaitFor(spec.PromptReady, promptReadyTimeout, pollInterval)
	if !res.Matched {
		return errtag.New(errtag.Timeout, fmt.Sprintf("%s did not reach a ready prompt after dialog dismissal", spec.Name))
	}
	return nil
}

// waitPromptReadyWithWatchdog is Gemini's prompt-ready wait: the overall
// ceiling is the caller's --timeout, a separate 30s idle watchdog fires if
// the capture stops changing, and the dialog detector runs on every tick
// rather than only after a failed wait.
func waitPromptReadyWithWatchdog(spec Spec, sess Session, policy usage.ApprovalPolicy, ceiling time.Duration) error {
	deadline := time.Now().Add(ceiling)
	watchdogDeadline := time.Now().Add(geminiIdleWatchdog)
	var lastCapture string

	for time.Now().Before(deadline) {
		capture := sess.CapturePane()
		if spec.PromptReady(capture) {
			return nil
		}
		if kind := spec.Detect(capture); kind != dialog.None {
			logger.Debug("dialog detected during watchdog wait", "provider", spec.Name, "kind", kind.String())
			if err := handleDialog(spec.Name, sess, kind, policy); err != nil {
				return err
			}
			watchdogDeadline = time.Now().Add(geminiIdleWatchdog)
		}
		if capture != lastCapture {
			lastCapture = capture
			watchdogDeadline = time.Now().Add(geminiIdleWatchdog)
		}
		if time.Now().After(watchdogDeadline) {
			return errtag.New(errtag.Timeout, fmt.Sprintf("%s idle for %s while waiting for a ready prompt", spec.Name, geminiIdleWatchdog))
		}
		if _, ok := sess.TryWait(); ok {
			return errtag.New(errtag.Timeout, fmt.Sprintf("%s exited before reaching a ready prompt", spec.Name))
		}
		if termio.ShutdownRequested() {
			return errtag.New(errtag.Timeout, fmt.Sprintf("%s interrupted by shutdown", spec.Name))
		}
		time.Sleep(pollInterval)
	}
	return errtag.New(errtag.Timeout, fmt.Sprintf("%s did not reach a ready prompt within %s", spec.Name, ceiling))
}

// handleDialog applies the approval policy: under Fail, surface the
// per-kind template regardless of dismissibility; under Accept, dismiss
// dismissible kinds and still surface non-dismissible ones.
func handleDialog(provider string, sess Session, kind dialog.Kind, policy usage.ApprovalPolicy) error {
	if policy == usage.Fail || !kind.Dismissible() {
		return errtag.New(errtag.Timeout, dialog.Template(provider, kind))
	}
	dialog.Dismiss(sess, provider, kind)
	return nil
}
