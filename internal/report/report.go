// Package report renders resolved cost totals as a Markdown pull request comment.
//
// Rendering is a pure function of its inputs: the same totals, currency, and
// options always produce byte-identical output. The comment ends with a marker
// line that publishers use to find and replace an earlier comment.
package report

import (
	"fmt"
	"strings"

	"github.com/finops-claw-gang/infracost-comment/internal/currency"
	"github.com/finops-claw-gang/infracost-comment/internal/period"
	"github.com/finops-claw-gang/infracost-comment/internal/totals"
)

// Defaults applied to empty Options fields.
const (
	DefaultTitle  = "💸 Infracost Report"
	DefaultMarker = "<!-- infracost-comment -->"
)

// HeadlinePrefix follows the trend glyph on the monthly-delta line of every
// rendered comment.
const HeadlinePrefix = "Monthly delta:"

// HeadlineStarts lists every way the monthly-delta line can begin, one per trend.
func HeadlineStarts() []string {
	var out []string
	for _, t := range []Trend{TrendIncrease, TrendDecrease, TrendUnchanged} {
		out = append(out, t.Glyph()+" "+HeadlinePrefix)
	}
	return out
}

// Options controls the non-numeric parts of the comment.
type Options struct {
	Author         string `json:"author,omitempty"`
	MentionHandles string `json:"mention_handles,omitempty"`
	MentionAuthor  bool   `json:"mention_author"`
	MentionList    bool   `json:"mention_list"`
	Title          string `json:"title,omitempty"`
	Marker         string `json:"marker,omitempty"`
}

// DefaultOptions mentions the author only, with the default title and marker.
func DefaultOptions() Options {
	return Options{
		MentionAuthor: true,
		Title:         DefaultTitle,
		Marker:        DefaultMarker,
	}
}

// EffectiveMarker returns the marker Render will emit for o.
func (o Options) EffectiveMarker() string {
	return o.normalized().Marker
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.Marker) == "" {
		o.Marker = DefaultMarker
	}
	o.Marker = strings.TrimSpace(o.Marker)
	o.Title = o.clean(o.Title)
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	o.Author = strings.TrimPrefix(o.clean(o.Author), "@")
	o.MentionHandles = o.clean(o.MentionHandles)
	return o
}

// clean keeps s on one line and removes the marker so it occurs exactly once.
func (o Options) clean(s string) string {
	s = strings.ReplaceAll(s, o.Marker, "")
	return strings.Join(strings.Fields(s), " ")
}

func (o Options) mentionLine() string {
	var parts []string
	if o.MentionAuthor && o.Author != "" {
		parts = append(parts, "@"+o.Author)
	}
	if o.MentionList && o.MentionHandles != "" {
		parts = append(parts, o.MentionHandles)
	}
	return strings.Join(parts, " ")
}

// Render formats t as a Markdown comment.
func Render(t totals.Totals, cur currency.Info, opts Options) string {
	opts = opts.normalized()
	glyph := TrendOf(t.Delta).Glyph()
	table := period.ProjectTotals(t)

	standard := func(amount float64) string {
		return cur.Flag + " " + FormatMoney(amount, PlacesStandard, cur.Symbol)
	}
	hourly := func(amount float64) string {
		return cur.Flag + " " + FormatHourly(amount, cur.Symbol)
	}
	row := func(label string, v totals.Totals, money func(float64) string) string {
		return fmt.Sprintf("| %s | %s | %s | %s %s |\n",
			label, money(v.Past), money(v.Future), glyph, money(v.Delta))
	}

	var b strings.Builder
	if line := opts.mentionLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "### %s\n\n", opts.Title)
	fmt.Fprintf(&b, "%s %s %s\n\n", glyph, HeadlinePrefix, standard(t.Delta))
	b.WriteString("| Period | Current 🟦 | Future 🟨 | Δ |\n")
	b.WriteString("|--------|-----------:|-----------:|---:|\n")
	b.WriteString(row("Monthly", table.Monthly, standard))
	b.WriteString(row("Daily", table.Daily, standard))
	b.WriteString(row("Hourly", table.Hourly, hourly))
	b.WriteString("\n")
	b.WriteString(opts.Marker)
	b.WriteString("\n")
	return b.String()
}
