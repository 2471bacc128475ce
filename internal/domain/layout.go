package domain

// Layout is the grid used for remote tiles.
type Layout struct {
	Columns int
	Rows    int
}

// LayoutFor returns the grid for n remote tiles. Above four tiles the 2x2
// grid is kept and overflow is truncated by the view.
func LayoutFor(n int) Layout {
	switch {
	case n <= 0:
		return Layout{}
	case n == 1:
		return Layout{Columns: 1, Rows: 1}
	case n == 2:
		return Layout{Columns: 2, Rows: 1}
	default:
		return Layout{Columns: 2, Rows: 2}
	}
}

// Capacity is the number of tiles the layout shows.
func (l Layout) Capacity() int { return l.Columns * l.Rows }
