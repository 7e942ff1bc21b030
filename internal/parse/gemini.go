package parse

import (
	"regexp"
	"strings"

	"agentusage/internal/usage"
)

var geminiLineRe = regexp.MustCompile(`^\s*(gemini-[\w.-]+)\s+(\d+|-)\s+(\d+(?:\.\d+)?)\s*%\s*\(Resets?\s+in\s+(.+?)\)`)

// Gemini parses the `/stats session` table: model name, request count (or
// "-" for absent), remaining percentage, and a relative reset duration.
func Gemini(capture string) usage.Data {
	ls := lines(capture)
	var entries []usage.Entry
	for _, l := range ls {
		m := geminiLineRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		label := m[1]
		requests := m[2]
		pctRemaining := usage.ClampPercent(mustParseFloat(m[3]))
		durationPhrase := strings.TrimSpace(m[4])

		entry := usage.NewLeftEntry(label, pctRemaining)
		entry.ResetInfo = "Resets in " + durationPhrase
		if requests != "-" {
			entry.Requests = requests
		}
		if mins, ok := usage.ParseGeminiDuration(durationPhrase); ok {
			minsCopy := mins
			entry.ResetMinutes = &minsCopy
		}
		entries = append(entries, entry)
	}
	return usage.Data{Provider: "gemini", Entries: entries}
}
