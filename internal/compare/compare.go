// Package compare diffs a previously published cost comment against a newly
// rendered one, section by section, so callers can tell whether the comment
// needs to be replaced.
package compare

import (
	"fmt"
	"strings"
)

// Status summarizes how the new comment relates to the previous one.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUnchanged Status = "unchanged"
	StatusUpdated   Status = "updated"
)

// Section names, in comment order.
const (
	SectionHeader   = "header"
	SectionHeadline = "headline"
	SectionTable    = "table"
	SectionMarker   = "marker"
)

var sections = []string{SectionHeader, SectionHeadline, SectionTable, SectionMarker}

// ComparisonResult is the outcome of comparing two comments.
type ComparisonResult struct {
	Status   Status              `json:"status"`
	Sections []SectionComparison `json:"sections,omitempty"`
	AllMatch bool                `json:"all_match"`
	Summary  string              `json:"summary"`
}

// SectionComparison records the comparison for a single comment section.
type SectionComparison struct {
	Section   string `json:"section"`
	Previous  string `json:"previous"`
	Current   string `json:"current"`
	Match     bool   `json:"match"`
	DiffLines string `json:"diff_lines,omitempty"`
}

// Compare compares previous against current. An empty previous means no
// comment existed yet. A line starting with any of headlineStarts is the delta
// headline, and marker is the trailing marker line.
func Compare(previous, current string, headlineStarts []string, marker string) *ComparisonResult {
	if strings.TrimSpace(previous) == "" {
		return &ComparisonResult{Status: StatusCreated, Summary: "no previous comment"}
	}

	prev := split(previous, headlineStarts, marker)
	curr := split(current, headlineStarts, marker)

	var comparisons []SectionComparison
	allMatch := true
	for _, name := range sections {
		sc := SectionComparison{
			Section:  name,
			Previous: prev[name],
			Current:  curr[name],
			Match:    prev[name] == curr[name],
		}
		if !sc.Match {
			allMatch = false
			sc.DiffLines = simpleDiff(sc.Previous, sc.Current)
		}
		comparisons = append(comparisons, sc)
	}

	res := &ComparisonResult{Sections: comparisons, AllMatch: allMatch}
	if allMatch {
		res.Status = StatusUnchanged
		res.Summary = "all sections match"
		return res
	}

	var divergent []string
	for _, c := range comparisons {
		if !c.Match {
			divergent = append(divergent, c.Section)
		}
	}
	res.Status = StatusUpdated
	res.Summary = fmt.Sprintf("changed: %s", strings.Join(divergent, ", "))
	return res
}

// split assigns every non-blank line of a comment to a section.
func split(comment string, headlineStarts []string, marker string) map[string]string {
	parts := make(map[string][]string, len(sections))
	for _, line := range strings.Split(comment, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case marker != "" && trimmed == marker:
			parts[SectionMarker] = append(parts[SectionMarker], trimmed)
		case strings.HasPrefix(trimmed, "|"):
			parts[SectionTable] = append(parts[SectionTable], trimmed)
		case hasAnyPrefix(trimmed, headlineStarts):
			parts[SectionHeadline] = append(parts[SectionHeadline], trimmed)
		default:
			parts[SectionHeader] = append(parts[SectionHeader], trimmed)
		}
	}
	out := make(map[string]string, len(parts))
	for k, v := range parts {
		out[k] = strings.Join(v, "\n")
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// simpleDiff returns a basic line-by-line diff indicator.
func simpleDiff(a, b string) string {
	aLines := strings.Split(a, "\n")
	bLines := strings.Split(b, "\n")
	var diffs []string

	maxLen := max(len(aLines), len(bLines))
	for i := range maxLen {
		aLine := ""
		if i < len(aLines) {
			aLine = aLines[i]
		}
		bLine := ""
		if i < len(bLines) {
			bLine = bLines[i]
		}
		if aLine != bLine {
			diffs = append(diffs, fmt.Sprintf("line %d:\n  previous: %s\n  current:  %s", i+1, aLine, bLine))
		}
	}
	return strings.Join(diffs, "\n")
}
