package totals

import (
	"log/slog"

	"github.com/finops-claw-gang/infracost-comment/internal/costdoc"
)

// projectDiff sums every project's diff record.
func projectDiff(in Inputs) (Totals, bool) {
	if in.Diff == nil {
		return Totals{}, false
	}
	var t Totals
	for _, p := range in.Diff.Projects() {
		d, ok := p.Diff()
		if !ok {
			continue
		}
		t = t.Add(Totals{
			Past:   d.Float(costdoc.FieldPast),
			Future: d.Float(costdoc.FieldFuture),
			Delta:  d.Float(costdoc.FieldDelta),
		})
	}
	return t, !t.IsZero()
}

// documentSummary reads the triple carried at document level, first from the
// root object and then from a top-level summary object.
func documentSummary(in Inputs) (Totals, bool) {
	if in.Diff == nil {
		return Totals{}, false
	}
	candidates := []costdoc.Record{in.Diff.Root()}
	if s, ok := in.Diff.Summary(); ok {
		candidates = append(candidates, s)
	}
	for _, rec := range candidates {
		if !rec.HasAny(costdoc.FieldPast, costdoc.FieldFuture, costdoc.FieldDelta) {
			continue
		}
		if t := tripleFrom(rec); !t.IsZero() {
			return t, true
		}
	}
	return Totals{}, false
}

// projectSummary accumulates projects without a diff record from their summary
// or breakdown record. Entries with neither are skipped.
func projectSummary(in Inputs) (Totals, bool) {
	if in.Diff == nil {
		return Totals{}, false
	}
	var t Totals
	for _, p := range in.Diff.Projects() {
		if _, ok := p.Diff(); ok {
			continue
		}
		if s, ok := p.Summary(); ok {
			pt := Totals{Future: s.Float(costdoc.FieldFuture)}
			if s.Has(costdoc.FieldPast) {
				pt.Past = s.Float(costdoc.FieldPast)
			} else {
				pt.Past = pastBreakdownCost(p)
			}
			if s.Has(costdoc.FieldDelta) {
				pt.Delta = s.Float(costdoc.FieldDelta)
			} else {
				pt.Delta = pt.Future - pt.Past
			}
			t = t.Add(pt)
			continue
		}
		if b, ok := p.Breakdown(); ok {
			pt := Totals{Past: pastBreakdownCost(p), Future: b.Float(costdoc.FieldFuture)}
			pt.Delta = pt.Future - pt.Past
			t = t.Add(pt)
			continue
		}
		slog.Debug("project has no recognizable cost record", "document", in.Diff.Source, "project", p.Name)
	}
	return t, !t.IsZero()
}

// breakdownPair compares two independent breakdowns. The target breakdown is
// required; a missing base breakdown counts as zero past cost.
func breakdownPair(in Inputs) (Totals, bool) {
	if in.Target == nil {
		return Totals{}, false
	}
	t := Totals{Past: breakdownTotal(in.Base), Future: breakdownTotal(in.Target)}
	t.Delta = t.Future - t.Past
	return t, !t.IsZero()
}

func pastBreakdownCost(p costdoc.Project) float64 {
	if pb, ok := p.PastBreakdown(); ok {
		return pb.Float(costdoc.FieldFuture)
	}
	return 0
}

// breakdownTotal sums totalMonthlyCost over a breakdown document's projects.
// A document without a project list falls back to its own top-level total.
func breakdownTotal(doc *costdoc.Document) float64 {
	if doc == nil {
		return 0
	}
	projects := doc.Projects()
	if len(projects) == 0 {
		return doc.Root().Float(costdoc.FieldFuture)
	}
	var sum float64
	for _, p := range projects {
		if b, ok := p.Breakdown(); ok {
			sum += b.Float(costdoc.FieldFuture)
			continue
		}
		if s, ok := p.Summary(); ok {
			sum += s.Float(costdoc.FieldFuture)
			continue
		}
		if rec := p.Record(); rec.Has(costdoc.FieldFuture) {
			sum += rec.Float(costdoc.FieldFuture)
			continue
		}
		slog.Debug("project has no breakdown total", "document", doc.Source, "project", p.Name)
	}
	return sum
}

func tripleFrom(rec costdoc.Record) Totals {
	t := Totals{
		Past:   rec.Float(costdoc.FieldPast),
		Future: rec.Float(costdoc.FieldFuture),
	}
	if rec.Has(costdoc.FieldDelta) {
		t.Delta = rec.Float(costdoc.FieldDelta)
	} else {
		t.Delta = t.Future - t.Past
	}
	return t
}
