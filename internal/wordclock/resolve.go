package wordclock

import (
	"errors"
	"fmt"
)

// ErrInvalidTime is returned for an hour outside [0,24] or a minute outside [0,59].
var ErrInvalidTime = errors.New("invalid time")

// carryBucket is the first five-minute bucket phrased as "<next hour> MOINS ...".
const carryBucket = 7

// Resolve returns the cells spelling hour:minute. Hour 24 is accepted as midnight.
func Resolve(hour, minute int, f Flags) (ActiveSet, error) {
	var s ActiveSet
	if err := validate(hour, minute); err != nil {
		return s, err
	}

	if f.ItIs {
		s.union(itIsMask[:])
	}

	if dots := minute % 5; dots > 0 {
		s.union(dotMasks[dots-1][:])
	}

	bucket := minute / 5
	s.union(minuteMasks[bucket][:])

	h := HourIndex(hour, minute)
	s.union(hourMasks[h][:])

	// MINUIT and MIDI need no AM/PM.
	if f.Meridiem && h != 0 && h != 12 {
		s.union(meridiemMasks[meridiem(hour)][:])
	}
	return s, nil
}

// HourIndex returns the hour table row used for hour:minute, after the
// carry to the next hour from :35 on.
func HourIndex(hour, minute int) int {
	h := hour
	if minute/5 >= carryBucket {
		h++
	}
	switch {
	case h >= 24:
		h -= 24
	case h > 12:
		h -= 12
	}
	return h
}

func meridiem(hour int) int {
	if hour%24 >= 12 {
		return 1
	}
	return 0
}

func validate(hour, minute int) error {
	if hour < 0 || hour > 24 {
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, minute)
	}
	return nil
}
