package wordclock

// Display geometry: 11 letters per row, 10 rows.
const (
	Columns   = 11
	Rows      = 10
	CellCount = Columns * Rows
)

// none pads table rows that are shorter than their storage width.
const none = -1

// Flags are the three persisted feature switches.
type Flags struct {
	Active   bool `json:"active"`           // master enable of the clock
	ItIs     bool `json:"display_it_is"`    // "IL EST" lead-in
	Meridiem bool `json:"display_meridiem"` // AM/PM indicator
}

// ActiveSet marks which cells must light up. Each call builds a fresh value.
type ActiveSet [CellCount]bool

// union lights every valid cell of mask; sentinels and out-of-range entries are skipped.
func (s *ActiveSet) union(mask []int) {
	for _, c := range mask {
		if c >= 0 && c < CellCount {
			s[c] = true
		}
	}
}

// Has reports whether cell c is lit.
func (s *ActiveSet) Has(c int) bool {
	return c >= 0 && c < CellCount && s[c]
}

// Len returns the number of lit cells.
func (s *ActiveSet) Len() int {
	n := 0
	for _, on := range s {
		if on {
			n++
		}
	}
	return n
}

// Cells returns the lit cell indices in ascending order.
func (s *ActiveSet) Cells() []int {
	out := make([]int, 0, s.Len())
	for i, on := range s {
		if on {
			out = append(out, i)
		}
	}
	return out
}
