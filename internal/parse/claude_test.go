package parse

import (
	"testing"
	"time"
)

func TestClaudeParsesHeaderAnchoredEntries(t *testing.T) {
	capture := `
Current session
  12% used
  Resets 2pm (America/Chicago)
  $1.20/$10.00 spent

Current week (all models)
  45% used
  Resets Feb 20 at 9am (America/Chicago)
`
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	data := Claude(capture, now)
	if len(data.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(data.Entries), data.Entries)
	}
	if data.Entries[0].PercentUsed != 12 {
		t.Errorf("entry 0 percent_used = %d, want 12", data.Entries[0].PercentUsed)
	}
	if data.Entries[0].PercentRemaining != 88 {
		t.Errorf("entry 0 percent_remaining = %d, want 88", data.Entries[0].PercentRemaining)
	}
	if data.Entries[0].Spent == "" {
		t.Error("entry 0 missing spent figure")
	}
	if data.Entries[0].ResetMinutes == nil {
		t.Error("entry 0 missing reset_minutes")
	}
	if data.Entries[1].PercentUsed != 45 {
		t.Errorf("entry 1 percent_used = %d, want 45", data.Entries[1].PercentUsed)
	}
}

func TestClaudeNormalizesResesTypo(t *testing.T) {
	capture := `
Current session
  5% used
  Reses 2pm (America/Chicago)
`
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	data := Claude(capture, now)
	if len(data.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(data.Entries))
	}
	if data.Entries[0].ResetInfo == "" || data.Entries[0].ResetInfo[:6] != "Resets" {
		t.Errorf("reset info not normalized: %q", data.Entries[0].ResetInfo)
	}
}

func TestClaudeFallbackWhenHeadersMissing(t *testing.T) {
	capture := `
some noisy chrome
12% used
Resets 2pm (America/Chicago)
45% used
Resets Feb 20 at 9am (America/Chicago)
$1.00/$5.00 spent
`
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	data := Claude(capture, now)
	if len(data.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(data.Entries))
	}
	if data.Entries[0].Label != "session" {
		t.Errorf("entry 0 label = %q, want session", data.Entries[0].Label)
	}
	if data.Entries[1].Label != "week-all" {
		t.Errorf("entry 1 label = %q, want week-all", data.Entries[1].Label)
	}
}

func TestClaudeStripsBoxGlyphsAtLineEdges(t *testing.T) {
	capture := "│Current session\n│  12% used\n│  Resets 2pm (America/Chicago)\n"
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	data := Claude(capture, now)
	if len(data.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(data.Entries))
	}
}
