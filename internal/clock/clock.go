package clock

import (
	"fmt"
	"time"
)

// SyncedAfterYear is the last year considered "not yet synchronized"; a
// board without RTC boots at the epoch.
const SyncedAfterYear = 2020

// Source supplies the local wall-clock time.
type Source interface {
	Now() time.Time
}

// System reads the host clock in a fixed location.
type System struct {
	Loc *time.Location
}

// NewSystem loads tz ("" or "Local" for the host zone).
func NewSystem(tz string) (*System, error) {
	if tz == "" || tz == "Local" {
		return &System{Loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &System{Loc: loc}, nil
}

func (s *System) Now() time.Time {
	if s.Loc == nil {
		return time.Now()
	}
	return time.Now().In(s.Loc)
}

// Fixed always returns T. Tests move it by assigning T.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Synced reports whether t looks like a synchronized clock.
func Synced(t time.Time) bool {
	return t.Year() > SyncedAfterYear
}
