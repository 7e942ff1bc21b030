package provider

import (
	"regexp"
	"strings"
	"time"

	"agentusage/internal/dialog"
	"agentusage/internal/errtag"
	"agentusage/internal/parse"
	"agentusage/internal/usage"
)

var codexDataVisibleRe = regexp.MustCompile(`\d+%\s*(left|used)`)

func codexPromptReady(capture string) bool {
	return strings.Contains(capture, "? for shortcuts")
}

func codexUpdatePromptSeen(capture string) bool {
	lower := strings.ToLower(capture)
	return strings.Contains(lower, "update available") && strings.Contains(lower, "codex")
}

// Codex builds the Codex driver spec: "codex -s read-only -a untrusted",
// issuing /status and recovering from a mid-wait update prompt by
// skipping it and re-issuing the command.
func Codex() Spec {
	return Spec{
		Name:         "codex",
		Binary:       "codex",
		Args:         []string{"-s", "read-only", "-a", "untrusted"},
		PromptReady:  codexPromptReady,
		DataVisible:  codexDataVisibleRe.MatchString,
		Detect:       dialog.DetectCodex,
		IssueCommand: codexIssueCommand,
		Parse:        parse.Codex,
	}
}

func codexIssueCommand(s Session, detect func(string) dialog.Kind, policy usage.ApprovalPolicy, dataTimeout time.Duration) error {
	issue := func() {
		s.WriteLiteral([]byte("/status"))
		s.WriteKey("Enter")
	}
	issue()

	deadline := time.Now().Add(dataTimeout)
	for time.Now().Before(deadline) {
		capture := s.CapturePane()
		if codexDataVisibleRe.MatchString(capture) {
			return nil
		}
		if codexUpdatePromptSeen(capture) {
			s.WriteKey("Down")
			s.WriteKey("Enter")
			s.WriteKey("Enter")
			issue()
		}
		if _, ok := s.TryWait(); ok {
			return errtag.New(errtag.Timeout, "codex exited before usage data appeared")
		}
		time.Sleep(pollInterval)
	}
	return nil
}
