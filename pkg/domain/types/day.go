package types

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Day is a calendar date in YYYY-MM-DD form. Scrum updates are unique per
// (user, Day).
type Day string

const dayLayout = "2006-01-02"

// DayOf truncates t to its calendar date in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the current calendar date in the given location.
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(time.Now().In(loc))
}

func (d Day) String() string {
	return string(d)
}

func (d Day) Validate() error {
	if _, err := time.Parse(dayLayout, string(d)); err != nil {
		return goerr.Wrap(err, "invalid day", goerr.V("day", d), goerr.T(ErrTagValidation))
	}
	return nil
}

// Time returns the midnight of the day in the given location.
func (d Day) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dayLayout, string(d), loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid day", goerr.V("day", d))
	}
	return t, nil
}
