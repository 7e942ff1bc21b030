package errtag

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorRendersTagPrefix(t *testing.T) {
	err := New(Timeout, "Timed out after 45s waiting for expected content")
	if got, want := err.Error(), "[timeout] Timed out after 45s waiting for expected content"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStripTagsIdempotent(t *testing.T) {
	tagged := "[timeout] boom"
	once := StripTags(tagged)
	twice := StripTags(once)
	if once != twice {
		t.Fatalf("StripTags not idempotent: %q vs %q", once, twice)
	}
	if once != "boom" {
		t.Fatalf("got %q, want %q", once, "boom")
	}
}

func TestStripTagsLeavesUntaggedUnchanged(t *testing.T) {
	plain := "spawn failed: permission denied"
	if got := StripTags(plain); got != plain {
		t.Fatalf("got %q, want unchanged %q", got, plain)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{New(ToolMissing, "claude CLI not found"), 2},
		{New(Timeout, "timed out"), 3},
		{New(ParseFailure, "no entries"), 4},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestExitCodeMappingThroughWrappedContext(t *testing.T) {
	inner := New(Timeout, "timed out")
	wrapped := fmt.Errorf("driver stage failed: %w", inner)
	if got := ExitCode(wrapped); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}
