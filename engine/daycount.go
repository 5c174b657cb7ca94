/*
daycount.go - Calendar-aware leave-day counting

PURPOSE:
  Computes the fractional count of chargeable leave days in an inclusive
  date interval. The result is a non-negative multiple of 0.5.

PER-DAY RULES (order matters):
  1. Public holiday  -> 0
  2. Sunday          -> 0   (weekly rest day)
  3. Saturday        -> 0.5 (partial work day, mornings only)
  4. Any other day   -> 1

  The holiday check runs BEFORE the weekend check so a holiday falling on
  a Saturday counts 0, not 0.5.

VALIDITY:
  end < start yields 0 rather than an error; a zero total is the signal
  the submission path uses to reject the interval (ErrInvalidInterval).
*/
package engine

import "github.com/shopspring/decimal"

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// CountLeaveDays returns the chargeable day total for [start, end] inclusive.
func CountLeaveDays(start, end Date, holidays HolidaySet) decimal.Decimal {
	total := decimal.Zero
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		switch {
		case holidays.Contains(d):
			// 0: holiday wins over weekend classification
		case d.IsSunday():
			// 0
		case d.IsSaturday():
			total = total.Add(halfDay)
		default:
			total = total.Add(fullDay)
		}
	}
	return total
}
