package layout

type Dim struct{ X, Y int }

type Serpentine struct {
	XFlipEveryRow bool
}

type Layout struct {
	Dim   Dim
	Order Serpentine
}

// WordClock is the 11x10 letter grid wired serpentine from the top-left cell.
func WordClock() Layout {
	return Layout{
		Dim:   Dim{X: 11, Y: 10},
		Order: Serpentine{XFlipEveryRow: true},
	}
}

// Index maps x,y -> linear cell index (0..N-1)
func (l Layout) Index(x, y int) int {
	xx := x
	if (y%2 == 1) && l.Order.XFlipEveryRow {
		xx = l.Dim.X - 1 - x
	}
	return y*l.Dim.X + xx
}

// XY is the inverse of Index.
func (l Layout) XY(i int) (x, y int) {
	y = i / l.Dim.X
	x = i % l.Dim.X
	if (y%2 == 1) && l.Order.XFlipEveryRow {
		x = l.Dim.X - 1 - x
	}
	return x, y
}

func (l Layout) Count() int {
	return l.Dim.X * l.Dim.Y
}
