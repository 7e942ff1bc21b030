package parse

import "testing"

func TestGeminiParsesModelRows(t *testing.T) {
	capture := `
gemini-2.5-pro       12   68.5% (Resets in 2h 30m)
gemini-2.5-flash     -    90% (Resets in 45m)
`
	data := Gemini(capture)
	if len(data.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(data.Entries), data.Entries)
	}
	if data.Entries[0].Requests != "12" {
		t.Errorf("entry 0 requests = %q, want 12", data.Entries[0].Requests)
	}
	if data.Entries[0].PercentRemaining != 69 {
		t.Errorf("entry 0 percent_remaining = %d, want 69 (rounded)", data.Entries[0].PercentRemaining)
	}
	if data.Entries[0].ResetMinutes == nil || *data.Entries[0].ResetMinutes != 150 {
		t.Errorf("entry 0 reset_minutes = %v, want 150", data.Entries[0].ResetMinutes)
	}
	if data.Entries[1].Requests != "" {
		t.Errorf("entry 1 requests should be absent for '-', got %q", data.Entries[1].Requests)
	}
	if data.Entries[1].ResetMinutes == nil || *data.Entries[1].ResetMinutes != 45 {
		t.Errorf("entry 1 reset_minutes = %v, want 45", data.Entries[1].ResetMinutes)
	}
}

func TestGeminiIgnoresNonMatchingLines(t *testing.T) {
	capture := "not a model row\n> some prompt text\n"
	data := Gemini(capture)
	if len(data.Entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(data.Entries))
	}
}
