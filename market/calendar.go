package market

import (
	"fmt"
	"time"
	_ "time/tzdata" // scheduled runners often lack a zoneinfo database
)

// Calendar decides whether a day is a session the strategy may trade.
//
// It knows weekends and an explicit holiday list. Early closes are not
// modelled.
type Calendar struct {
	Location *time.Location
	Holidays map[string]struct{} // keyed by YYYY-MM-DD
}

// NewCalendar builds a calendar for the named zone (empty means UTC).
func NewCalendar(zone string, holidays []string) (*Calendar, error) {
	loc := time.UTC
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load location %q: %w", zone, err)
		}
	}

	c := &Calendar{Location: loc, Holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		if _, err := ParseDate(h); err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h, err)
		}
		c.Holidays[h] = struct{}{}
	}
	return c, nil
}

// Today returns the session date of t in the calendar's location.
func (c *Calendar) Today(t time.Time) time.Time {
	return Day(t.In(c.loc()))
}

func (c *Calendar) IsWeekend(t time.Time) bool {
	wd := t.In(c.loc()).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (c *Calendar) IsHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.Holidays[t.In(c.loc()).Format(DateLayout)]
	return ok
}

func (c *Calendar) IsTradingDay(t time.Time) bool {
	return !c.IsWeekend(t) && !c.IsHoliday(t)
}

func (c *Calendar) loc() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}
