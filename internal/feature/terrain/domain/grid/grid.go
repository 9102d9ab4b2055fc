// Package grid defines the dense price grid used by the terrain pipeline
// and the builder that reconstructs it from sparse daily observations.
package grid

const (
	// Months is the row count of a calendar grid.
	Months = 12
	// DaysPerMonth is the column count of a calendar grid.
	DaysPerMonth = 31
)

// Cell is a single grid value. Valid is false until an observation or a fill
// pass writes the cell, so a legitimate zero price is never mistaken for a gap.
type Cell struct {
	Value float64
	Valid bool
}

// Grid is a rows×cols matrix of cells stored row-major.
// A grid is mutated only while it is being built and is read-only afterwards.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// New returns a grid of the given shape with every cell unfilled.
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrInvalidShape
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}, nil
}

// NewCalendar returns an unfilled month×day-of-month grid (12×31).
func NewCalendar() *Grid {
	g, _ := New(Months, DaysPerMonth)
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell of g.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). Out-of-range coordinates yield an
// unfilled cell.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Cell{}
	}
	return g.cells[row*g.cols+col]
}

// Set writes v into (row, col) and marks it valid.
// It returns false when the coordinates are outside the grid.
func (g *Grid) Set(row, col int, v float64) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row*g.cols+col] = Cell{Value: v, Valid: true}
	return true
}

// row returns the backing slice of a row; writes go straight into g.
func (g *Grid) row(r int) []Cell {
	return g.cells[r*g.cols : (r+1)*g.cols]
}

// RowHasData reports whether any cell of row r is valid.
func (g *Grid) RowHasData(r int) bool {
	if r < 0 || r >= g.rows {
		return false
	}
	for _, c := range g.row(r) {
		if c.Valid {
			return true
		}
	}
	return false
}

// Filled reports whether every cell is valid.
func (g *Grid) Filled() bool {
	for _, c := range g.cells {
		if !c.Valid {
			return false
		}
	}
	return true
}

// Empty reports whether no cell is valid.
func (g *Grid) Empty() bool {
	for _, c := range g.cells {
		if c.Valid {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether g and o have the same shape and identical cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Matrix returns the grid as nested slices; unfilled cells are nil.
func (g *Grid) Matrix() [][]*float64 {
	out := make([][]*float64, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]*float64, g.cols)
		for c, cell := range g.row(r) {
			if cell.Valid {
				v := cell.Value
				out[r][c] = &v
			}
		}
	}
	return out
}
