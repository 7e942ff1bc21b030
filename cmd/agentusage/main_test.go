package main

import (
	"testing"

	"agentusage/internal/errtag"
	"agentusage/internal/orchestrator"
)

func TestSelectSpecsDefaultsToAllThreeProviders(t *testing.T) {
	specs, err := selectSpecs(false, false, false, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("got %d specs, want 3", len(specs))
	}
}

func TestSelectSpecsSingleProvider(t *testing.T) {
	specs, err := selectSpecs(true, false, false, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "claude" {
		t.Fatalf("got %+v, want single claude spec", specs)
	}
}

func TestSelectSpecsRejectsMultipleProviders(t *testing.T) {
	if _, err := selectSpecs(true, true, false, "", false); err == nil {
		t.Fatal("expected an error for --claude and --codex together")
	}
}

func TestSelectSpecsThreadsDirectoryAndDebugCapture(t *testing.T) {
	specs, err := selectSpecs(false, false, true, "/tmp/project", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs[0].Dir != "/tmp/project" {
		t.Errorf("Dir = %q, want /tmp/project", specs[0].Dir)
	}
	if !specs[0].DebugCapture {
		t.Error("expected DebugCapture true")
	}
}

func TestExitCodeForSuccess(t *testing.T) {
	if got := exitCodeFor(false, true, nil); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestExitCodeForAllProvidersFailure(t *testing.T) {
	results := []orchestrator.Result{
		{Provider: "claude", Err: errtag.New(errtag.ToolMissing, "boom")},
		{Provider: "codex", Err: errtag.New(errtag.Timeout, "boom")},
	}
	if got := exitCodeFor(false, false, results); got != 1 {
		t.Errorf("got %d, want 1 for all-providers failure", got)
	}
}

func TestExitCodeForSingleProviderUsesTag(t *testing.T) {
	results := []orchestrator.Result{
		{Provider: "claude", Err: errtag.New(errtag.ToolMissing, "not found")},
	}
	if got := exitCodeFor(true, false, results); got != 2 {
		t.Errorf("got %d, want 2 for tool-missing", got)
	}
}

func TestTrimToOneLine(t *testing.T) {
	if got := trimToOneLine("1.2.3\nextra trailer\n"); got != "1.2.3" {
		t.Errorf("got %q, want %q", got, "1.2.3")
	}
	if got := trimToOneLine("no newline"); got != "no newline" {
		t.Errorf("got %q, want unchanged string", got)
	}
}
