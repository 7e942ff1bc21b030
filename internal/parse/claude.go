package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"agentusage/internal/usage"
)

var claudeHeaderRe = regexp.MustCompile(`^(Current session|Current week \(all models\)|Current week \(Sonnet only\)|Extra usage|Current week.*|Current session.*)$`)
var claudePercentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*used`)
var claudeResetRe = regexp.MustCompile(`(?i)(Resets?|Reses)\s*.+`)
var claudeSpendRe = regexp.MustCompile(`\$[\d.,]+\s*/\s*\$[\d.,]+\s*spent`)

const claudeHeaderScanWindow = 5

// Claude scans the captured screen for known usage-panel section headers
// and, for each, the percentage/reset/spend facts within the next five
// lines. When the header-anchored pass finds nothing (noisy PTY captures
// occasionally elide labels), it falls back to taking the first four
// percentage matches in document order.
func Claude(capture string, now time.Time) usage.Data {
	ls := lines(capture)
	entries := claudeByHeader(ls, now)
	if len(entries) == 0 {
		entries = claudeFallback(ls, now)
	}
	return usage.Data{Provider: "claude", Entries: entries}
}

func claudeByHeader(ls []string, now time.Time) []usage.Entry {
	var entries []usage.Entry
	for i, l := range ls {
		if !claudeHeaderRe.MatchString(l) {
			continue
		}
		label := l
		end := i + 1 + claudeHeaderScanWindow
		if end > len(ls) {
			end = len(ls)
		}
		window := strings.Join(ls[i+1:end], "\n")

		pm := claudePercentRe.FindStringSubmatch(window)
		if pm == nil {
			continue
		}
		pctUsed := usage.ClampPercent(mustParseFloat(pm[1]))
		entry := usage.NewUsedEntry(label, pctUsed)

		if rm := claudeResetRe.FindString(window); rm != "" {
			reset := usage.NormalizeReses(rm)
			entry.ResetInfo = reset
			if mins, ok := usage.ParseClaudeReset(reset, now); ok {
				entry.ResetMinutes = mins
			}
		}
		if sm := claudeSpendRe.FindString(window); sm != "" {
			entry.Spent = sm
		}
		entries = append(entries, entry)
	}
	return entries
}

var claudeFallbackOrder = []string{"session", "week-all", "week-sonnet", "extra"}

func claudeFallback(ls []string, now time.Time) []usage.Entry {
	text := strings.Join(ls, "\n")
	pctMatches := claudePercentRe.FindAllStringSubmatch(text, -1)
	if len(pctMatches) == 0 {
		return nil
	}
	resetMatches := claudeResetRe.FindAllString(text, -1)
	spendMatch := claudeSpendRe.FindString(text)

	n := len(pctMatches)
	if n > len(claudeFallbackOrder) {
		n = len(claudeFallbackOrder)
	}
	entries := make([]usage.Entry, 0, n)
	for i := 0; i < n; i++ {
		pctUsed := usage.ClampPercent(mustParseFloat(pctMatches[i][1]))
		entry := usage.NewUsedEntry(claudeFallbackOrder[i], pctUsed)
		if i < len(resetMatches) {
			reset := usage.NormalizeReses(resetMatches[i])
			entry.ResetInfo = reset
			if mins, ok := usage.ParseClaudeReset(reset, now); ok {
				entry.ResetMinutes = mins
			}
		}
		if i == 3 && spendMatch != "" {
			entry.Spent = spendMatch
		}
		entries = append(entries, entry)
	}
	return entries
}

func mustParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
