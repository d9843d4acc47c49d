// Package totals resolves past, future, and delta monthly cost from cost-estimation
// documents whose shape depends on which infracost command produced them.
//
// Resolution is an ordered list of extraction strategies. Each strategy reads the
// documents and returns a whole triple or nothing; the first strategy whose triple
// is not all zeros wins. Fields are never mixed across strategies.
package totals

import (
	"log/slog"
	"math"

	"github.com/finops-claw-gang/infracost-comment/internal/costdoc"
)

// Totals is a monthly-cost triple.
type Totals struct {
	Past   float64 `json:"past"`
	Future float64 `json:"future"`
	Delta  float64 `json:"delta"`
}

// IsZero reports whether all three values are exactly zero.
func (t Totals) IsZero() bool {
	return t.Past == 0 && t.Future == 0 && t.Delta == 0
}

// Add returns the element-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{Past: t.Past + o.Past, Future: t.Future + o.Future, Delta: t.Delta + o.Delta}
}

// IsFinite reports whether no value is infinite or NaN. Sums of very large
// amounts can overflow even when every field parsed finitely.
func (t Totals) IsFinite() bool {
	for _, v := range []float64{t.Past, t.Future, t.Delta} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Scale divides every value by divisor.
func (t Totals) Scale(divisor float64) Totals {
	return Totals{Past: t.Past / divisor, Future: t.Future / divisor, Delta: t.Delta / divisor}
}

// Inputs holds the documents available to the resolver. Any of them may be nil.
type Inputs struct {
	// Diff is the primary document, usually `infracost diff --format json` output.
	Diff *costdoc.Document
	// Base is the breakdown of the base branch.
	Base *costdoc.Document
	// Target is the breakdown of the pull request branch.
	Target *costdoc.Document
}

// Strategy names reported in Result.Strategy.
const (
	StrategyProjectDiff     = "project-diff"
	StrategyDocumentSummary = "document-summary"
	StrategyProjectSummary  = "project-summary"
	StrategyBreakdownPair   = "breakdown-pair"
	StrategyNone            = "none"
)

// Strategy is one extraction attempt. Extract returns ok=false when it found
// no data or only an all-zero triple.
type Strategy struct {
	Name    string
	Extract func(Inputs) (Totals, bool)
}

// DefaultStrategies is the resolution order. Per-project diff records are the
// richest source and must not be masked by a summary that happens to be non-zero.
var DefaultStrategies = []Strategy{
	{Name: StrategyProjectDiff, Extract: projectDiff},
	{Name: StrategyDocumentSummary, Extract: documentSummary},
	{Name: StrategyProjectSummary, Extract: projectSummary},
	{Name: StrategyBreakdownPair, Extract: breakdownPair},
}

// Result is the resolved triple and the name of the strategy that produced it.
type Result struct {
	Totals   Totals `json:"totals"`
	Strategy string `json:"strategy"`
}

// Resolve applies DefaultStrategies to in.
func Resolve(in Inputs) Result {
	return ResolveWith(in, DefaultStrategies)
}

// ResolveWith applies strategies in order. When none yields a non-zero triple
// the result is {0, 0, 0} with StrategyNone, which is a valid "no cost data" outcome.
func ResolveWith(in Inputs, strategies []Strategy) Result {
	for _, s := range strategies {
		t, ok := s.Extract(in)
		if ok && !t.IsFinite() {
			slog.Debug("totals strategy overflowed", "strategy", s.Name)
			continue
		}
		if ok && !t.IsZero() {
			slog.Debug("totals resolved", "strategy", s.Name, "past", t.Past, "future", t.Future, "delta", t.Delta)
			return Result{Totals: t, Strategy: s.Name}
		}
		slog.Debug("totals strategy yielded no data", "strategy", s.Name)
	}
	return Result{Strategy: StrategyNone}
}
