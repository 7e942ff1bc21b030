// Package orchestrator fans the three provider drivers out across
// parallel native goroutines and joins their results, tolerating any
// individual provider's failure without aborting its siblings.
// golang.org/x/sync/errgroup was already pulled in transitively and is
// promoted to a direct dependency here, deliberately not using
// errgroup.Group's cancel-on-first-error semantics: every provider must
// run to completion regardless of a sibling's outcome.
package orchestrator

import (
	"time"

	"golang.org/x/sync/errgroup"

	"agentusage/internal/errtag"
	"agentusage/internal/logger"
	"agentusage/internal/provider"
	"agentusage/internal/usage"
)

// Result is one provider's outcome: either Data is populated, or Err is.
type Result struct {
	Provider string
	Data     usage.Data
	Err      error
}

// Run executes specs in parallel, one goroutine per provider, and returns
// one Result per spec in the same order specs was given. A panic inside a
// single provider's goroutine is recovered and recorded as that
// provider's error; it never takes down the others.
func Run(specs []provider.Spec, policy usage.ApprovalPolicy, dataTimeout time.Duration, now time.Time) []Result {
	results := make([]Result, len(specs))

	var g errgroup.Group
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{
						Provider: spec.Name,
						Err:      errtag.New(errtag.General, panicMessage(spec.Name, r)),
					}
				}
			}()
			logger.Debug("starting provider driver", "provider", spec.Name, "binary", spec.Binary)
			data, runErr := provider.Run(spec, policy, dataTimeout, now)
			if runErr != nil {
				logger.Warn("provider driver failed", "provider", spec.Name, "error", runErr)
			} else {
				logger.Debug("provider driver finished", "provider", spec.Name, "entries", len(data.Entries))
			}
			results[i] = Result{Provider: spec.Name, Data: data, Err: runErr}
			// Always return nil: errgroup.Group.Wait's first-error
			// short-circuit would drop results for providers still in
			// flight; a sibling's failure must never abort the others.
			// Each provider's own error is already captured in results[i].
			return nil
		})
	}
	g.Wait()

	return results
}

func panicMessage(provider string, r any) string {
	return provider + " driver panicked: " + formatPanic(r)
}

func formatPanic(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "unknown panic"
}

// Report is the fully joined outcome of one invocation: successful
// providers' data, keyed by provider name, plus tag-stripped warnings for
// any that failed.
type Report struct {
	Results  map[string]usage.Data
	Warnings map[string]string
}

// Join converts raw Results into a Report, success-vs-warning split: any
// provider error becomes a warnings[<provider>] entry with the message
// tag-stripped; successful providers still render.
func Join(results []Result) Report {
	report := Report{
		Results:  make(map[string]usage.Data),
		Warnings: make(map[string]string),
	}
	for _, r := range results {
		if r.Err != nil {
			report.Warnings[r.Provider] = errtag.StripTags(r.Err.Error())
			continue
		}
		report.Results[r.Provider] = r.Data
	}
	return report
}

// AnySucceeded reports whether at least one provider in results produced
// data, the success condition for all-providers mode: exit 0 if any
// provider succeeded, 1 only if all failed.
func AnySucceeded(results []Result) bool {
	for _, r := range results {
		if r.Err == nil {
			return true
		}
	}
	return false
}
