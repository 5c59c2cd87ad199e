package inventory

import (
	"time"

	"tool-rental/internal/pkg/errs"
)

var ErrInvalidPeriod = errs.Mark(errs.New("end date must be on or after start date"), errs.ErrValidation)

// Period is an inclusive calendar date range.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Overlaps reports whether [start,end] intersects the period.
func (p Period) Overlaps(start, end time.Time) bool {
	return !start.After(p.End) && !end.Before(p.Start)
}

// Days is the whole number of days between start and end, at least 1.
func (p Period) Days() int {
	return BillableDays(p.Start, p.End)
}

func BillableDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
