package termio

import "testing"

func TestStripANSIRemovesColorCodes(t *testing.T) {
	in := "\x1b[31mred\x1b[0m plain"
	if got, want := StripANSI(in), "red plain"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripANSIRemovesCursorMovement(t *testing.T) {
	in := "\x1b[2J\x1b[H\x1b[1;1Hhello"
	if got, want := StripANSI(in), "hello"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripANSIRemovesOSCSequence(t *testing.T) {
	in := "\x1b]0;window title\x07visible"
	if got, want := StripANSI(in), "visible"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripANSIIsIdempotent(t *testing.T) {
	in := "\x1b[1mbold\x1b[0m"
	once := StripANSI(in)
	twice := StripANSI(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestStripANSILeavesPlainTextUntouched(t *testing.T) {
	in := "nothing escaped here"
	if got := StripANSI(in); got != in {
		t.Errorf("got %q, want unchanged %q", got, in)
	}
}
