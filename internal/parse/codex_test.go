package parse

import (
	"testing"
	"time"
)

func TestCodexParsesSectionedLimitLines(t *testing.T) {
	capture := `
Weekly limit:
Messages limit: [=====     ] 40% left (resets 14:00)
Tokens limit: [==        ] 80% used (resets 18:30 on 2 Jan)
`
	now := time.Date(2026, 12, 31, 10, 0, 0, 0, time.UTC)
	data := Codex(capture, now)
	if len(data.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(data.Entries), data.Entries)
	}
	if data.Entries[0].Label != "Weekly Messages limit" {
		t.Errorf("entry 0 label = %q", data.Entries[0].Label)
	}
	if data.Entries[0].PercentRemaining != 40 {
		t.Errorf("entry 0 percent_remaining = %d, want 40", data.Entries[0].PercentRemaining)
	}
	if data.Entries[1].PercentUsed != 80 {
		t.Errorf("entry 1 percent_used = %d, want 80", data.Entries[1].PercentUsed)
	}
}

func TestCodexUnsectionedLabelWhenNoHeader(t *testing.T) {
	capture := `Tokens limit: [==        ] 80% used (resets 18:30)`
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	data := Codex(capture, now)
	if len(data.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(data.Entries))
	}
	if data.Entries[0].Label != "Tokens limit" {
		t.Errorf("label = %q, want \"Tokens limit\"", data.Entries[0].Label)
	}
}

func TestCodexSectionResetsOnNonDecorationLine(t *testing.T) {
	capture := `
Weekly limit:
plain prose line with no colon
Tokens limit: [==        ] 80% used (resets 18:30)
`
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	data := Codex(capture, now)
	if len(data.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(data.Entries))
	}
	if data.Entries[0].Label != "Tokens limit" {
		t.Errorf("label = %q, want unsectioned \"Tokens limit\" after context reset", data.Entries[0].Label)
	}
}
