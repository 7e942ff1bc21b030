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

var geminiDataVisibleRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?%\s*\(Resets?\b`)

const geminiIdleWatchdog = 30 * time.Second

// geminiPromptReady reports whether Gemini's prompt is ready: any of a
// handful of case-sensitive markers, a few case-insensitive ones, or any
// line that is or begins a bare ">" prompt. It must not match auth/model
// status lines or dialog prompts; those go through the dialog path
// instead.
func geminiPromptReady(capture string) bool {
	caseSensitive := []string{"GEMINI.md", "MCP servers", "gemini >"}
	for _, m := range caseSensitive {
		if strings.Contains(capture, m) {
			return true
		}
	}
	lower := strings.ToLower(capture)
	caseInsensitive := []string{"gemini.md", "mcp servers", "what can i help"}
	for _, m := range caseInsensitive {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, line := range strings.Split(capture, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == ">" || strings.HasPrefix(trimmed, "> ") {
			return true
		}
	}
	return false
}

// Gemini builds the Gemini driver spec. Its prompt-ready wait ceiling is
// the caller's --timeout (the same dataTimeout the data-visible wait uses)
// rather than the fixed 30s Claude/Codex use, since
// auth/extension loading can legitimately take longer; a separate 30s
// idle watchdog still fires if the capture stops changing.
func Gemini() Spec {
	return Spec{
		Name:                       "gemini",
		Binary:                     "gemini",
		Args:                       nil,
		PromptReady:                geminiPromptReady,
		DataVisible:                geminiDataVisibleRe.MatchString,
		Detect:                     dialog.DetectGemini,
		IssueCommand:               geminiIssueCommand,
		Parse:                      func(capture string, _ time.Time) usage.Data { return parse.Gemini(capture) },
		PromptReadyUsesDataTimeout: true,
	}
}

func geminiIssueCommand(s Session, detect func(string) dialog.Kind, policy usage.ApprovalPolicy, dataTimeout time.Duration) error {
	s.WriteLiteral([]byte("/stats session"))
	s.WriteKey("Enter")

	deadline := time.Now().Add(dataTimeout)
	for time.Now().Before(deadline) {
		capture := s.CapturePane()
		if geminiDataVisibleRe.MatchString(capture) {
			return nil
		}
		if kind := detect(capture); kind != dialog.None {
			if err := handleDialog("gemini", s, kind, policy); err != nil {
				return err
			}
			s.WriteLiteral([]byte("/stats session"))
			s.WriteKey("Enter")
		}
		if _, ok := s.TryWait(); ok {
			return errtag.New(errtag.Timeout, "gemini exited before usage data appeared")
		}
		time.Sleep(pollInterval)
	}
	return nil
}
