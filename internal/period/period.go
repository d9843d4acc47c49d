// Package period projects monthly cost figures onto daily and hourly rates.
package period

import "github.com/finops-claw-gang/infracost-comment/internal/totals"

// Fixed average month lengths. These are deliberately not calendar-aware.
const (
	DaysPerMonth  = 30.0
	HoursPerMonth = 730.0
)

// Projection holds one monthly figure and its derived rates.
type Projection struct {
	Monthly float64 `json:"monthly"`
	Daily   float64 `json:"daily"`
	Hourly  float64 `json:"hourly"`
}

// Project derives daily and hourly figures from a monthly one.
func Project(monthly float64) Projection {
	return Projection{
		Monthly: monthly,
		Daily:   monthly / DaysPerMonth,
		Hourly:  monthly / HoursPerMonth,
	}
}

// Table is a Totals triple projected onto all three periods.
type Table struct {
	Monthly totals.Totals `json:"monthly"`
	Daily   totals.Totals `json:"daily"`
	Hourly  totals.Totals `json:"hourly"`
}

// ProjectTotals projects every field of a monthly triple.
func ProjectTotals(monthly totals.Totals) Table {
	return Table{
		Monthly: monthly,
		Daily:   monthly.Scale(DaysPerMonth),
		Hourly:  monthly.Scale(HoursPerMonth),
	}
}
