package report

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal places used for each period.
const (
	PlacesStandard int32 = 2
	PlacesHourly   int32 = 4
)

// FormatMoney renders amount rounded half away from zero to places decimals,
// with comma thousands grouping and the sign ahead of the symbol: -$1,234.50.
// Amounts that round to zero never carry a sign. Infinite and NaN amounts
// render as zero.
func FormatMoney(amount float64, places int32, symbol string) string {
	return formatMoney(amount, places, symbol, true)
}

// FormatHourly is FormatMoney at PlacesHourly without thousands grouping.
func FormatHourly(amount float64, symbol string) string {
	return formatMoney(amount, PlacesHourly, symbol, false)
}

func formatMoney(amount float64, places int32, symbol string, group bool) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		amount = 0
	}
	d := decimal.NewFromFloat(amount).Round(places)
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(places)

	intPart, frac, _ := strings.Cut(fixed, ".")
	out := intPart
	if group {
		out = groupThousands(intPart)
	}
	if frac != "" {
		out += "." + frac
	}
	if neg {
		return "-" + symbol + out
	}
	return symbol + out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
