package render

import (
	"errors"
	"fmt"
	"time"
)

// Segment ids.
const (
	Foreground = 0
	Background = 1
)

// Strip renders two logical segments through a logical -> physical mapping,
// then writes the physical frame to the driver.
type Strip struct {
	N   int
	Drv Driver

	Segments [2]Segment
	// BlankBackground paints background cells black regardless of their segment color.
	BlankBackground bool

	mapping []int // logical position -> physical cell
	logical []Color
	Out     []Color // physical frame

	// metrics (last durations in ms)
	Last struct {
		RenderMS float64
	}
}

// NewStrip allocates buffers for n cells with an identity mapping and
// the whole strip in the background segment.
func NewStrip(n int, drv Driver, fg, bg Color) (*Strip, error) {
	if n <= 0 {
		return nil, errors.New("invalid cell count")
	}
	s := &Strip{
		N:   n,
		Drv: drv,
		Segments: [2]Segment{
			{Name: "foreground", Start: 0, Stop: 0, Color: fg, On: true},
			{Name: "background", Start: 0, Stop: n, Color: bg, On: true},
		},
		mapping: make([]int, n),
		logical: make([]Color, n),
		Out:     make([]Color, n),
	}
	for i := range s.mapping {
		s.mapping[i] = i
	}
	return s, nil
}

// UpdateMapping installs perm, which must be a permutation of [0,N).
func (s *Strip) UpdateMapping(perm []int) error {
	if len(perm) != s.N {
		return fmt.Errorf("mapping length %d does not match %d cells", len(perm), s.N)
	}
	seen := make([]bool, s.N)
	for _, c := range perm {
		if c < 0 || c >= s.N || seen[c] {
			return fmt.Errorf("mapping is not a permutation (cell %d)", c)
		}
		seen[c] = true
	}
	copy(s.mapping, perm)
	return nil
}

// SetSegment moves segment id to the logical range [start,stop).
func (s *Strip) SetSegment(id, start, stop int) error {
	if id < 0 || id >= len(s.Segments) {
		return fmt.Errorf("segment %d not found", id)
	}
	if start < 0 || stop > s.N || start > stop {
		return fmt.Errorf("segment range [%d,%d) outside [0,%d)", start, stop, s.N)
	}
	s.Segments[id].Start = start
	s.Segments[id].Stop = stop
	return nil
}

// Apply takes a partition result: perm as the mapping, [0,split) as the
// foreground and [split,N) as the background.
func (s *Strip) Apply(perm []int, split int) error {
	if err := s.UpdateMapping(perm); err != nil {
		return err
	}
	if err := s.SetSegment(Foreground, 0, split); err != nil {
		return err
	}
	return s.SetSegment(Background, split, s.N)
}

// RenderOnce paints the segments, resolves the mapping and writes the frame.
func (s *Strip) RenderOnce() error {
	start := time.Now()

	for i := range s.logical {
		s.logical[i] = Color{}
	}
	for id, seg := range s.Segments {
		if !seg.On {
			continue
		}
		c := seg.Color
		if id == Background && s.BlankBackground {
			c = Color{}
		}
		for i := seg.Start; i < seg.Stop; i++ {
			s.logical[i] = c
		}
	}
	for i, c := range s.logical {
		s.Out[s.mapping[i]] = c
	}

	if s.Drv != nil {
		if err := s.Drv.Write(Bytes(s.Out)); err != nil {
			return err
		}
	}
	s.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0
	return nil
}
