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

var claudeDataVisibleRe = regexp.MustCompile(`\d+(?:\.\d+)?%\s*used`)
var claudeStatusTailRe = []string{"Status", "Config", "Usage"}

func claudePromptReady(capture string) bool {
	trimmed := strings.TrimSpace(capture)
	return strings.Contains(trimmed, ">") || strings.Contains(trimmed, "❯") || strings.Contains(trimmed, "Tips")
}

func claudeStatusReady(capture string) bool {
	for _, want := range claudeStatusTailRe {
		if !strings.Contains(capture, want) {
			return false
		}
	}
	return true
}

// Claude builds the Claude driver spec: "claude --allowed-tools \"\"",
// issuing /usage with second-Enter and nudge-Enter retries, falling back
// to /status + Right navigation when /usage never renders.
func Claude() Spec {
	return Spec{
		Name:         "claude",
		Binary:       "claude",
		Args:         []string{"--allowed-tools", ""},
		PromptReady:  claudePromptReady,
		DataVisible:  claudeDataVisibleRe.MatchString,
		Detect:       dialog.DetectClaude,
		IssueCommand: claudeIssueCommand,
		Parse:        parse.Claude,
	}
}

func claudeIssueCommand(s Session, detect func(string) dialog.Kind, policy usage.ApprovalPolicy, dataTimeout time.Duration) error {
	s.WriteLiteral([]byte("/usage"))
	s.WriteKey("Enter")

	lastEnter := time.Now()
	deadline := time.Now().Add(dataTimeout)

	for time.Now().Before(deadline) {
		capture := s.CapturePane()
		if claudeDataVisibleRe.MatchString(capture) {
			return nil
		}

		normalized := dialog.Normalize(capture)
		if strings.Contains(normalized, "showplanusagelimits") || strings.Contains(normalized, "showplan") || strings.Contains(normalized, "/usage") {
			s.WriteKey("Enter")
			lastEnter = time.Now()
		} else if time.Since(lastEnter) >= 850*time.Millisecond {
			s.WriteKey("Enter")
			lastEnter = time.Now()
		}

		if kind := detect(capture); kind != dialog.None {
			if err := handleDialog("claude", s, kind, policy); err != nil {
				return err
			}
		}

		if _, ok := s.TryWait(); ok {
			return errtag.New(errtag.Timeout, "claude exited before usage data appeared")
		}

		time.Sleep(pollInterval)
	}

	// /usage never rendered inside the data timeout; fall back to /status.
	s.WriteLiteral([]byte("/status"))
	s.WriteKey("Enter")
	res := s.WaitFor(claudeStatusReady, dataTimeout, pollInterval)
	if !res.Matched {
		return errtag.New(errtag.Timeout, "claude did not show usage data via /usage or /status")
	}
	for i := 0; i < 4; i++ {
		if claudeDataVisibleRe.MatchString(s.CapturePane()) {
			return nil
		}
		s.WriteKey("Right")
		time.Sleep(150 * time.Millisecond)
	}
	return nil
}
