package wordclock

import "errors"

// ErrUnknownScreen is returned by Screen for an unsupported name.
var ErrUnknownScreen = errors.New("unknown screen")

// Frame is what the renderer needs for one display state.
type Frame struct {
	Active ActiveSet
	// Perm maps logical position to physical cell.
	Perm []int
	// Split separates foreground [0,Split) from background [Split,CellCount).
	Split int
}

// Foreground returns the physical cells of the lit segment.
func (f Frame) Foreground() []int { return f.Perm[:f.Split] }

// Background returns the physical cells of the dark segment.
func (f Frame) Background() []int { return f.Perm[f.Split:] }

// Update resolves hour:minute and partitions the result.
// Identical inputs always produce identical frames.
func Update(hour, minute int, f Flags) (Frame, error) {
	s, err := Resolve(hour, minute, f)
	if err != nil {
		return Frame{}, err
	}
	return frameOf(s), nil
}

// ScreenName selects a status screen shown before the clock can run.
type ScreenName string

const (
	ScreenWifi ScreenName = "wifi"
	ScreenTime ScreenName = "time"
)

// Screen returns the frame for a status screen.
func Screen(name ScreenName) (Frame, error) {
	var s ActiveSet
	switch name {
	case ScreenWifi:
		s.union(wifiMask[:])
	case ScreenTime:
		s.union(timeMask[:])
	default:
		return Frame{}, ErrUnknownScreen
	}
	return frameOf(s), nil
}

func frameOf(s ActiveSet) Frame {
	perm, split := Partition(s[:])
	return Frame{Active: s, Perm: perm, Split: split}
}
