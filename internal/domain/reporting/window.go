package reporting

import (
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodMonth, nil
	}
	return "", httperr.ErrBusiness("invalid_period")
}

// Window is the half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// WindowFor returns the calendar period containing ref, evaluated in loc.
// Weeks start on Monday.
func WindowFor(period Period, ref time.Time, loc *time.Location) Window {
	r := ref.In(loc)
	y, m, d := r.Date()

	switch period {
	case PeriodDay:
		from := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Window{From: from, To: time.Date(y, m, d+1, 0, 0, 0, 0, loc)}
	case PeriodWeek:
		offset := (int(r.Weekday()) + 6) % 7
		from := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return Window{From: from, To: time.Date(y, m, d-offset+7, 0, 0, 0, 0, loc)}
	case PeriodYear:
		from := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return Window{From: from, To: time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)}
	default:
		from := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Window{From: from, To: time.Date(y, m+1, 1, 0, 0, 0, 0, loc)}
	}
}
