package main

import "time"

// ActiveWindow decides whether the bot is serving regular users at a given
// instant. The inactive interval is a daily recurring range of local
// wall-clock time in a fixed reference timezone; it may wrap past midnight
// (e.g. 23:00-03:00). Both bounds use the same rule everywhere: inclusive
// start, exclusive end. Equal bounds mean there is no inactive interval.
type ActiveWindow struct {
	loc           *time.Location
	inactiveStart int // minutes of day
	inactiveEnd   int
}

func NewActiveWindow(startHHMM, endHHMM string, loc *time.Location) (ActiveWindow, error) {
	sh, sm, err := parseClockHHMM(startHHMM)
	if err != nil {
		return ActiveWindow{}, err
	}
	eh, em, err := parseClockHHMM(endHHMM)
	if err != nil {
		return ActiveWindow{}, err
	}
	return ActiveWindow{
		loc:           loc,
		inactiveStart: sh*60 + sm,
		inactiveEnd:   eh*60 + em,
	}, nil
}

// IsActive reports whether now falls outside the inactive interval. Pure and
// total: any instant yields a deterministic answer.
func (w ActiveWindow) IsActive(now time.Time) bool {
	if w.inactiveStart == w.inactiveEnd {
		return true
	}
	local := now.In(w.loc)
	t := local.Hour()*60 + local.Minute()
	if w.inactiveStart < w.inactiveEnd {
		return !(t >= w.inactiveStart && t < w.inactiveEnd)
	}
	// Interval wraps midnight.
	return !(t >= w.inactiveStart || t < w.inactiveEnd)
}
