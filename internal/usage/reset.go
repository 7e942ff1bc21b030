package usage

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The Gemini duration regexes match "Nh Mm", "Nh", and "Nm" phrases
// respectively.
var (
	geminiFullRe = regexp.MustCompile(`^(\d+)h\s*(\d+)m$`)
	geminiHourRe = regexp.MustCompile(`^(\d+)h$`)
	geminiMinRe  = regexp.MustCompile(`^(\d+)m$`)
)

// ParseGeminiDuration converts a "Nh Mm" / "Nh" / "Nm" phrase (the captured
// text following "Resets in") into minutes.
func ParseGeminiDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if m := geminiFullRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return h*60 + mm, true
	}
	if m := geminiHourRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return h * 60, true
	}
	if m := geminiMinRe.FindStringSubmatch(s); m != nil {
		mm, _ := strconv.Atoi(m[1])
		return mm, true
	}
	return 0, false
}

var (
	codexTimeOnlyRe = regexp.MustCompile(`(?i)resets?\s+(\d{1,2}):(\d{2})\s*$`)
	codexDateRe     = regexp.MustCompile(`(?i)resets?\s+(\d{1,2}):(\d{2})\s+on\s+(\d{1,2})\s+([A-Za-z]+)\s*$`)
)

// ParseCodexReset normalizes Codex's "resets HH:MM" / "resets HH:MM on D Mon"
// phrases to minutes-until-reset in local time, given the capture instant.
func ParseCodexReset(phrase string, now time.Time) (*int, bool) {
	phrase = strings.TrimSpace(phrase)
	now = now.Local()

	if m := codexDateRe.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		month, ok := parseMonthName(m[4])
		if !ok {
			return nil, false
		}
		target := time.Date(now.Year(), month, day, hour, min, 0, 0, now.Location())
		if target.Before(now) {
			target = time.Date(now.Year()+1, month, day, hour, min, 0, 0, now.Location())
		}
		return minutesUntil(now, target)
	}

	if m := codexTimeOnlyRe.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if target.Before(now) {
			target = target.AddDate(0, 0, 1)
		}
		return minutesUntil(now, target)
	}

	return nil, false
}

var (
	claudeTZRe       = regexp.MustCompile(`\(([A-Za-z_]+(?:/[A-Za-z_]+)*)\)`)
	claudeMonthDayRe = regexp.MustCompile(`(?i)resets?\s*([A-Za-z]{3,9})\.?\s*(\d{1,2})(?:\s*at\s*(\d{1,2}(?::\d{2})?\s*(?:am|pm)))?\s*\(`)
	claudeTimeOnlyRe = regexp.MustCompile(`(?i)resets?\s*(\d{1,2}(?::\d{2})?\s*(?:am|pm))\s*\(`)
)

// ParseClaudeReset resolves Claude's timezone-qualified reset phrases
// ("Resets 2pm (America/Chicago)", "Resets Feb 20 at 9am (America/Chicago)",
// "Resets Feb 20 (America/Chicago)", and their concatenated forms) to
// minutes-until-reset. Returns (nil, false) when no timezone is present or
// the phrase is unparseable.
func ParseClaudeReset(phrase string, now time.Time) (*int, bool) {
	phrase = NormalizeReses(phrase)

	tzMatch := claudeTZRe.FindStringSubmatch(phrase)
	if tzMatch == nil {
		return nil, false
	}
	loc, err := time.LoadLocation(tzMatch[1])
	if err != nil {
		return nil, false
	}
	nowInZone := now.In(loc)

	if m := claudeMonthDayRe.FindStringSubmatch(phrase); m != nil {
		month, ok := parseMonthName(m[1])
		if !ok {
			return nil, false
		}
		day, _ := strconv.Atoi(m[2])
		hour, min := 0, 0
		if m[3] != "" {
			h, mi, ok := parseClockPhrase(m[3])
			if !ok {
				return nil, false
			}
			hour, min = h, mi
		}
		target := time.Date(nowInZone.Year(), month, day, hour, min, 0, 0, loc)
		if target.Before(nowInZone) {
			target = time.Date(nowInZone.Year()+1, month, day, hour, min, 0, 0, loc)
		}
		return minutesUntil(nowInZone, target)
	}

	if m := claudeTimeOnlyRe.FindStringSubmatch(phrase); m != nil {
		hour, min, ok := parseClockPhrase(m[1])
		if !ok {
			return nil, false
		}
		target := time.Date(nowInZone.Year(), nowInZone.Month(), nowInZone.Day(), hour, min, 0, 0, loc)
		if target.Before(nowInZone) {
			target = target.AddDate(0, 0, 1)
		}
		return minutesUntil(nowInZone, target)
	}

	return nil, false
}

// NormalizeReses fixes the occasional PTY-capture typo "Reses..." back to
// "Resets...", tolerating leading whitespace and either case. Shared by
// every Claude reset-phrase consumer (internal/parse and this package).
func NormalizeReses(s string) string {
	trimmed := strings.TrimLeft(s, " \t")
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "reses") {
		return "Resets" + trimmed[len("reses"):]
	}
	return s
}

func minutesUntil(now, target time.Time) (*int, bool) {
	d := target.Sub(now)
	if d < 0 {
		return nil, false
	}
	minutes := int(d.Minutes() + 0.5)
	if minutes < 0 {
		return nil, false
	}
	return &minutes, true
}

var clockWithMinRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)$`)
var clockHourOnlyRe = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)

func parseClockPhrase(s string) (hour, min int, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m := clockWithMinRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		return clockHour12(h, m[3]), mi, true
	}
	if m := clockHourOnlyRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return clockHour12(h, m[2]), 0, true
	}
	return 0, 0, false
}

func clockHour12(h int, meridiem string) int {
	h = h % 12
	if meridiem == "pm" {
		h += 12
	}
	return h
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

func parseMonthName(s string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(s)]
	return m, ok
}
