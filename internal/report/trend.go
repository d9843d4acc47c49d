package report

// Epsilon is the band around zero treated as "unchanged". It absorbs the
// floating-point noise left by subtracting two independently summed breakdowns.
const Epsilon = 0.0005

// Trend is the direction of a cost change.
type Trend int

const (
	TrendUnchanged Trend = iota
	TrendIncrease
	TrendDecrease
)

// TrendOf classifies a monthly delta. The same trend is reused for every row.
func TrendOf(delta float64) Trend {
	switch {
	case delta > Epsilon:
		return TrendIncrease
	case delta < -Epsilon:
		return TrendDecrease
	}
	return TrendUnchanged
}

// Glyph returns the Markdown indicator for t.
func (t Trend) Glyph() string {
	switch t {
	case TrendIncrease:
		return "🔴 ↑"
	case TrendDecrease:
		return "🟢 ↓"
	}
	return "⚪ ↔️"
}

func (t Trend) String() string {
	switch t {
	case TrendIncrease:
		return "increase"
	case TrendDecrease:
		return "decrease"
	}
	return "unchanged"
}
