package termio

import "regexp"

// ansiRe matches CSI/OSC/simple ESC sequences. Full terminal-emulation
// libraries solve a harder problem: reconstructing the whole screen with
// cursor/attribute state, which this tool doesn't need for matching
// regexes against "what's on screen". Stripping is a pure function with
// no state to thread through drivers, so a regexp pass is the simplest
// correct tool here (see DESIGN.md).
var ansiRe = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[()][AB012]|[=>MNOPQRSTUVWXYZ78c])`)

// StripANSI removes ANSI escape sequences from s. Pure and idempotent.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}
