package enrich

import (
	"time"

	"github.com/shopspring/decimal"

	"busops/internal/utils"
)

var hundred = decimal.NewFromInt(100)

// Rate is part/total as a percentage rounded to two places; 0 when total
// is not positive.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}

// Ratio is num/den as a percentage rounded to two places; 0 when den is 0.
func Ratio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Mul(hundred).Div(den).Round(2).InexactFloat64()
}

// Average is total/count rounded to two places; 0 when count is 0.
func Average(total decimal.Decimal, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2).InexactFloat64()
}

// Money converts a stored amount for exact summation.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Amount converts a summed amount back for JSON output.
func Amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// DateRange is an inclusive calendar-date window. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange parses optional YYYY-MM-DD bounds.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := utils.ParseDate(from)
		if err != nil {
			return r, err
		}
		r.From = t
	}
	if to != "" {
		t, err := utils.ParseDate(to)
		if err != nil {
			return r, err
		}
		r.To = t
	}
	return r, nil
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether date falls inside the window. With any bound
// set, a missing or malformed date is outside.
func (r DateRange) Contains(date string) bool {
	if r.IsZero() {
		return true
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return false
	}
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// SameDate compares two dates by calendar day, falling back to string
// equality when either does not parse.
func SameDate(a, b string) bool {
	da, errA := utils.ParseDate(a)
	db, errB := utils.ParseDate(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}
