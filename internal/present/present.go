// Package present renders a joined orchestrator.Report as a stable JSON
// schema, or as a human-readable table. The "optional fields omitted via
// pointer/omitempty" convention and the plain tabwriter table follow
// cmd/wt's output style.
package present

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"agentusage/internal/orchestrator"
	"agentusage/internal/usage"
)

// EntryJSON is one usage.Entry rendered to the wire schema; optional
// fields are nil/omitted when absent instead of zero-valued.
type EntryJSON struct {
	PercentUsed      int      `json:"percent_used"`
	PercentRemaining int      `json:"percent_remaining"`
	ResetInfo        string   `json:"reset_info"`
	ResetMinutes     *int     `json:"reset_minutes,omitempty"`
	ResetHours       *float64 `json:"reset_hours,omitempty"`
	ResetDays        *float64 `json:"reset_days,omitempty"`
	Spent            *string  `json:"spent,omitempty"`
	Requests         *string  `json:"requests,omitempty"`
}

// Document is the full JSON output.
type Document struct {
	Success  bool                            `json:"success"`
	Results  map[string]map[string]EntryJSON `json:"results"`
	Warnings map[string]string               `json:"warnings,omitempty"`
	Error    string                          `json:"error,omitempty"`
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func toEntryJSON(e usage.Entry) EntryJSON {
	ej := EntryJSON{
		PercentUsed:      e.PercentUsed,
		PercentRemaining: e.PercentRemaining,
		ResetInfo:        e.ResetInfo,
		Spent:            optionalString(e.Spent),
		Requests:         optionalString(e.Requests),
	}
	if e.ResetMinutes != nil {
		mins := *e.ResetMinutes
		ej.ResetMinutes = &mins
		hours := round2(float64(mins) / 60.0)
		days := round2(float64(mins) / (60.0 * 24.0))
		ej.ResetHours = &hours
		ej.ResetDays = &days
	}
	return ej
}

// BuildDocument converts a joined report into the wire schema. Success is
// true if at least one provider produced data; the top-level error field
// is only set on total failure.
func BuildDocument(report orchestrator.Report) Document {
	doc := Document{
		Results: make(map[string]map[string]EntryJSON),
	}
	for provider, data := range report.Results {
		entries := make(map[string]EntryJSON, len(data.Entries))
		for _, e := range data.Entries {
			entries[e.Label] = toEntryJSON(e)
		}
		doc.Results[provider] = entries
	}
	if len(report.Warnings) > 0 {
		doc.Warnings = report.Warnings
	}
	doc.Success = len(doc.Results) > 0
	if !doc.Success {
		doc.Error = "All providers failed."
	}
	return doc
}

// JSON renders the document as indented JSON.
func JSON(doc Document) (string, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal usage document: %w", err)
	}
	return string(b), nil
}

// Table renders a joined report as a human-readable table, one section
// per provider, sorted for deterministic output.
func Table(report orchestrator.Report) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 2, 2, ' ', 0)

	providers := make([]string, 0, len(report.Results))
	for p := range report.Results {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	for _, p := range providers {
		fmt.Fprintf(&buf, "%s\n", strings.ToUpper(p))
		data := report.Results[p]
		for _, e := range data.Entries {
			fmt.Fprintf(w, "  %s\t%d%% used\t%d%% remaining\t%s\n", e.Label, e.PercentUsed, e.PercentRemaining, e.ResetInfo)
		}
		w.Flush()
		fmt.Fprintln(&buf)
	}

	if len(report.Warnings) > 0 {
		warnProviders := make([]string, 0, len(report.Warnings))
		for p := range report.Warnings {
			warnProviders = append(warnProviders, p)
		}
		sort.Strings(warnProviders)
		fmt.Fprintln(&buf, "WARNINGS")
		for _, p := range warnProviders {
			fmt.Fprintf(&buf, "  %s: %s\n", p, report.Warnings[p])
		}
	}

	return buf.String()
}
