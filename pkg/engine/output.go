package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// FileReport describes one generated output file.
type FileReport struct {
	Path    string `json:"path"`
	Dialect string `json:"dialect"`
	Lines   int    `json:"lines"`
	Status  string `json:"status"`
	Diff    string `json:"diff,omitempty"`
}

// PropertyFailure records a simplifier property that did not hold.
type PropertyFailure struct {
	Language string `json:"language"`
	Property string `json:"property"`
	Input    string `json:"input"`
	Want     string `json:"want"`
	Got      string `json:"got"`
}

// SelfCheckReport summarizes a self check run.
type SelfCheckReport struct {
	Pool        string            `json:"pool"`
	Seed        int64             `json:"seed"`
	Languages   []string          `json:"languages"`
	Trees       int               `json:"trees"`
	Checks      int               `json:"checks"`
	NodesBefore int               `json:"nodes_before"`
	NodesAfter  int               `json:"nodes_after"`
	Failures    []PropertyFailure `json:"failures,omitempty"`
}

// Report summarizes the entire run.
type Report struct {
	Config    Config           `json:"config"`
	Manifest  string           `json:"manifest,omitempty"`
	Undefined []string         `json:"undefined,omitempty"`
	Files     []FileReport     `json:"files,omitempty"`
	SelfCheck *SelfCheckReport `json:"self_check,omitempty"`
}

// OK reports whether every output is up to date and no property failed.
func (r Report) OK() bool {
	for _, f := range r.Files {
		if f.Status == StatusDiffers {
			return false
		}
	}
	return r.SelfCheck == nil || len(r.SelfCheck.Failures) == 0
}

// sortFailures returns a copy of failures grouped by language, then property.
func sortFailures(failures []PropertyFailure) []PropertyFailure {
	sorted := make([]PropertyFailure, len(failures))
	copy(sorted, failures)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Language != sorted[j].Language {
			return sorted[i].Language < sorted[j].Language
		}
		return sorted[i].Property < sorted[j].Property
	})
	return sorted
}

// WriteTextReport writes the report in human-readable format.
func WriteTextReport(w io.Writer, r Report) {
	if r.Config.Input != "" {
		name := r.Manifest
		if name == "" {
			name = r.Config.Input
		}
		fmt.Fprintf(w, "Manifest:  %s\n", name)
		for _, f := range r.Files {
			fmt.Fprintf(w, "  %-9s %-8s %4d lines | %s\n", f.Status, f.Dialect, f.Lines, f.Path)
		}
		if len(r.Undefined) > 0 {
			fmt.Fprintf(w, "Undefined: %s\n", strings.Join(r.Undefined, ", "))
		}
		for _, f := range r.Files {
			if f.Diff != "" {
				fmt.Fprintln(w)
				fmt.Fprint(w, f.Diff)
			}
		}
	}

	if sc := r.SelfCheck; sc != nil {
		if r.Config.Input != "" {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "========== SELF CHECK ==========")
		fmt.Fprintf(w, "Pool:      %s\n", sc.Pool)
		fmt.Fprintf(w, "Seed:      %d\n", sc.Seed)
		fmt.Fprintf(w, "Languages: %s\n", strings.Join(sc.Languages, ", "))
		fmt.Fprintf(w, "Trees:     %d\n", sc.Trees)
		fmt.Fprintf(w, "Checks:    %d\n", sc.Checks)
		fmt.Fprintf(w, "Nodes:     %d -> %d\n", sc.NodesBefore, sc.NodesAfter)
		fmt.Fprintf(w, "Failures:  %d\n", len(sc.Failures))
		for i, f := range sortFailures(sc.Failures) {
			fmt.Fprintf(w, "  #%d: [%s] %s\n", i+1, f.Language, f.Property)
			fmt.Fprintf(w, "      input: %s\n", f.Input)
			fmt.Fprintf(w, "      want:  %s\n", f.Want)
			fmt.Fprintf(w, "      got:   %s\n", f.Got)
		}
		fmt.Fprintln(w, "================================")
	}
}

// WriteJSONReport writes the report as JSON.
func WriteJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
