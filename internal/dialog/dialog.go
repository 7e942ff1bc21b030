// Package dialog classifies captured terminal text into a closed set of
// interactive prompt kinds and supplies the keystroke sequence that
// dismisses each. Grounded on per-provider priority tables over known
// dialog phrases; the sum-type-with-Unknown-payload shape follows
// internal/sandbox.EnforcementError's convention of a small closed taxonomy
// plus an escape hatch for anything unrecognized.
package dialog

import "strings"

// Kind identifies the interactive prompt currently on screen.
type Kind int

const (
	None Kind = iota
	TrustFolder
	UpdatePrompt
	AuthRequired
	TermsAcceptance
	FirstRunSetup
	SandboxTrust
	Unknown
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case TrustFolder:
		return "trust-folder"
	case UpdatePrompt:
		return "update-prompt"
	case AuthRequired:
		return "auth-required"
	case TermsAcceptance:
		return "terms-acceptance"
	case FirstRunSetup:
		return "first-run-setup"
	case SandboxTrust:
		return "sandbox-trust"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Dismissible reports whether Dismiss can plausibly clear this kind.
// AuthRequired and FirstRunSetup require the user's own action and are
// never auto-dismissed.
func (k Kind) Dismissible() bool {
	switch k {
	case AuthRequired, FirstRunSetup, None:
		return false
	default:
		return true
	}
}

var authPhrases = []string{
	"sign in required", "log in required", "login required",
	"please sign in", "please log in", "you need to sign in",
	"you need to log in", "sign in to continue", "log in to continue",
	"sign in with", "log in with", "must authenticate",
	"please authenticate", "authentication required",
	"authenticate before using",
}

var updatePhrases = []string{"update available", "new version"}

var themePhrasesGemini = []string{"select a theme", "choose a theme", "color theme"}
var firstRunPhrasesClaude = []string{"welcome to claude", "first time"}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isAuthStatus filters out status lines ("Authenticated as ...") and the
// transient spinner ("Waiting for auth...") that would otherwise collide
// with auth phrase substrings.
func isAuthStatus(lower string) bool {
	return strings.Contains(lower, "authenticated as") || strings.Contains(lower, "waiting for auth")
}

func hasAuthRequired(lower string) bool {
	if isAuthStatus(lower) {
		return false
	}
	return containsAny(lower, authPhrases)
}

func hasUpdatePrompt(lower string) bool {
	return containsAny(lower, updatePhrases)
}

// DetectClaude applies Claude's priority: UpdatePrompt → AuthRequired →
// FirstRunSetup.
func DetectClaude(capture string) Kind {
	lower := strings.ToLower(capture)
	switch {
	case hasUpdatePrompt(lower):
		return UpdatePrompt
	case hasAuthRequired(lower):
		return AuthRequired
	case containsAny(lower, firstRunPhrasesClaude):
		return FirstRunSetup
	default:
		return None
	}
}

// DetectCodex applies Codex's priority: UpdatePrompt (requires both
// "update available" and "codex") → TermsAcceptance → TrustFolder →
// SandboxTrust → AuthRequired.
func DetectCodex(capture string) Kind {
	lower := strings.ToLower(capture)
	switch {
	case strings.Contains(lower, "update available") && strings.Contains(lower, "codex"):
		return UpdatePrompt
	case strings.Contains(lower, "accept the terms") || strings.Contains(lower, "terms of use"):
		return TermsAcceptance
	case strings.Contains(lower, "trust this folder") || strings.Contains(lower, "do you trust"):
		return TrustFolder
	case strings.Contains(lower, "sandbox") && (strings.Contains(lower, "trust") || strings.Contains(lower, "allow")):
		return SandboxTrust
	case hasAuthRequired(lower):
		return AuthRequired
	default:
		return None
	}
}

// DetectGemini applies Gemini's priority: TrustFolder → FirstRunSetup
// (theme pickers) → UpdatePrompt (excluding "extension" mentions, which are
// informational) → TermsAcceptance → AuthRequired.
func DetectGemini(capture string) Kind {
	lower := strings.ToLower(capture)
	switch {
	case strings.Contains(lower, "trust this folder") || strings.Contains(lower, "do you trust"):
		return TrustFolder
	case containsAny(lower, themePhrasesGemini):
		return FirstRunSetup
	case hasUpdatePrompt(lower) && !strings.Contains(lower, "extension"):
		return UpdatePrompt
	case strings.Contains(lower, "accept the terms") || strings.Contains(lower, "terms of use"):
		return TermsAcceptance
	case hasAuthRequired(lower):
		return AuthRequired
	default:
		return None
	}
}

// Template renders a human-readable, provider-named error for a detected
// kind, used when the dialog can't (or under policy shouldn't) be
// dismissed.
func Template(provider string, k Kind) string {
	switch k {
	case AuthRequired:
		return provider + " requires sign-in; run it interactively once to authenticate, then retry"
	case FirstRunSetup:
		return provider + " needs first-run setup (theme/welcome); run it interactively once to complete setup, then retry"
	case TrustFolder:
		return provider + " is asking whether to trust this folder; rerun with an approval policy that accepts prompts, or trust it manually"
	case UpdatePrompt:
		return provider + " is prompting about an available update; rerun with an approval policy that accepts prompts, or update it manually"
	case TermsAcceptance:
		return provider + " is asking to accept its terms of use; rerun with an approval policy that accepts prompts, or accept manually"
	case SandboxTrust:
		return provider + " is asking about sandbox permissions; rerun with an approval policy that accepts prompts, or approve manually"
	default:
		return provider + " is showing an unrecognized prompt"
	}
}
