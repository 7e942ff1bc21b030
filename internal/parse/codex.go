package parse

import (
	"regexp"
	"strings"
	"time"

	"agentusage/internal/usage"
)

var codexSectionHeaderRe = regexp.MustCompile(`^(\S.*?)\s*limit:\s*$`)
var codexLimitLineRe = regexp.MustCompile(`^(.*?)\s*limit:\s+\[.*?\]\s+(\d+(?:\.\d+)?)\s*%\s*(left|used)\s+\(resets?\s+(.+?)\)\s*$`)

// Codex tracks an active section header (pushed by a bare "<Something>
// limit:" line) until a non-decoration, non-key-value line resets the
// context, and emits "<section> <label> limit" while one is active.
func Codex(capture string, now time.Time) usage.Data {
	ls := lines(capture)
	var entries []usage.Entry
	section := ""

	for _, l := range ls {
		if m := codexSectionHeaderRe.FindStringSubmatch(l); m != nil && !strings.Contains(l, "[") {
			section = m[1]
			continue
		}
		if m := codexLimitLineRe.FindStringSubmatch(l); m != nil {
			label := strings.TrimSpace(m[1]) + " limit"
			if section != "" {
				label = section + " " + label
			}
			pct := usage.ClampPercent(mustParseFloat(m[2]))
			kind := usage.Used
			if strings.EqualFold(m[3], "left") {
				kind = usage.Left
			}

			var entry usage.Entry
			if kind == usage.Left {
				entry = usage.NewLeftEntry(label, pct)
			} else {
				entry = usage.NewUsedEntry(label, pct)
			}
			resetPhrase := "resets " + m[4]
			entry.ResetInfo = resetPhrase
			if mins, ok := usage.ParseCodexReset(resetPhrase, now); ok {
				entry.ResetMinutes = mins
			}
			entries = append(entries, entry)
			continue
		}
		if codexResetsSection(l) {
			section = ""
		}
	}
	return usage.Data{Provider: "codex", Entries: entries}
}

// codexResetsSection reports whether line l ends the active section
// context: any line that is not a decoration line (starts with "[", "╭",
// "╰", ">") and not a key-value line (contains ":").
func codexResetsSection(l string) bool {
	trimmed := strings.TrimSpace(l)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "╭") ||
		strings.HasPrefix(trimmed, "╰") || strings.HasPrefix(trimmed, ">") {
		return false
	}
	if strings.Contains(trimmed, ":") {
		return false
	}
	return true
}
