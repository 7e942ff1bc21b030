package orchestrator

import (
	"testing"
	"time"

	"agentusage/internal/errtag"
	"agentusage/internal/provider"
	"agentusage/internal/usage"
)

func TestRunFailsFastWithToolMissingDoesNotBlockSiblings(t *testing.T) {
	specA := provider.Claude()
	specA.Binary = "definitely-not-a-real-binary-aaa"
	specB := provider.Codex()
	specB.Binary = "definitely-not-a-real-binary-bbb"

	results := Run([]provider.Spec{specA, specB}, usage.Fail, time.Second, time.Now().UTC())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("expected error for provider %s", r.Provider)
		}
		if errtag.TagOf(r.Err) != errtag.ToolMissing {
			t.Errorf("provider %s: got tag %v, want ToolMissing", r.Provider, errtag.TagOf(r.Err))
		}
	}
}

func TestJoinSplitsSuccessesAndWarnings(t *testing.T) {
	results := []Result{
		{Provider: "claude", Data: usage.Data{Provider: "claude", Entries: []usage.Entry{{Label: "session"}}}},
		{Provider: "codex", Err: errtag.New(errtag.Timeout, "codex timed out")},
	}
	report := Join(results)

	if _, ok := report.Results["claude"]; !ok {
		t.Error("expected claude in results")
	}
	if _, ok := report.Warnings["codex"]; !ok {
		t.Error("expected codex in warnings")
	}
	if report.Warnings["codex"] != "codex timed out" {
		t.Errorf("warning not tag-stripped: %q", report.Warnings["codex"])
	}
}

func TestAnySucceededTrueWithPartialFailure(t *testing.T) {
	results := []Result{
		{Provider: "claude", Err: errtag.New(errtag.Timeout, "boom")},
		{Provider: "codex", Data: usage.Data{Provider: "codex"}},
	}
	if !AnySucceeded(results) {
		t.Error("expected AnySucceeded true with one success")
	}
}

func TestAnySucceededFalseWhenAllFailed(t *testing.T) {
	results := []Result{
		{Provider: "claude", Err: errtag.New(errtag.Timeout, "boom")},
		{Provider: "codex", Err: errtag.New(errtag.ToolMissing, "boom")},
	}
	if AnySucceeded(results) {
		t.Error("expected AnySucceeded false when all failed")
	}
}
