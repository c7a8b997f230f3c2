// Package engine implements the deterministic falling-block rules: board,
// pieces, line clearing, cascade gravity, lock delay, hold, scoring and the
// two-player garbage attack. It has no platform dependencies and never logs.
package engine

// Cell values stored on a Board.
const (
	CellEmpty   = 0
	CellGarbage = 8

	// OutOfBounds is returned by Board.Cell for coordinates off the grid.
	// It is never stored.
	OutOfBounds = -1
)

// Default playfield dimensions.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Board is a fixed-size grid of cell values. Row 0 is the top, x grows to the right.
type Board struct {
	width  int
	height int
	grid   [][]int
}

// NewBoard creates an empty board. Non-positive dimensions fall back to 10x20.
func NewBoard(width, height int) *Board {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	b := &Board{width: width, height: height}
	b.grid = make([][]int, height)
	for y := range b.grid {
		b.grid[y] = make([]int, width)
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// IsValidPosition reports whether (x, y) lies on the grid.
func (b *Board) IsValidPosition(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Cell returns the value at (x, y), or OutOfBounds.
func (b *Board) Cell(x, y int) int {
	if !b.IsValidPosition(x, y) {
		return OutOfBounds
	}
	return b.grid[y][x]
}

// SetCell stores value at (x, y). It returns false without mutating the board
// when the coordinate is off the grid or the value is not a storable cell.
func (b *Board) SetCell(x, y, value int) bool {
	if !b.IsValidPosition(x, y) || value < CellEmpty || value > CellGarbage {
		return false
	}
	b.grid[y][x] = value
	return true
}

// IsCellEmpty reports whether (x, y) is on the grid and empty.
// Out of bounds is a wall.
func (b *Board) IsCellEmpty(x, y int) bool {
	return b.IsValidPosition(x, y) && b.grid[y][x] == CellEmpty
}

// IsRowFull reports whether every cell of row y is occupied.
func (b *Board) IsRowFull(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	for _, v := range b.grid[y] {
		if v == CellEmpty {
			return false
		}
	}
	return true
}

// IsRowEmpty reports whether every cell of row y is empty.
func (b *Board) IsRowEmpty(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	for _, v := range b.grid[y] {
		if v != CellEmpty {
			return false
		}
	}
	return true
}

// Clear empties every cell. Dimensions are unchanged.
func (b *Board) Clear() {
	for y := range b.grid {
		for x := range b.grid[y] {
			b.grid[y][x] = CellEmpty
		}
	}
}

// Rows returns a deep copy of the grid, row-major.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.height)
	for y := range b.grid {
		rows[y] = make([]int, b.width)
		copy(rows[y], b.grid[y])
	}
	return rows
}

// LoadRows replaces the board contents. It returns false and leaves the board
// untouched if the dimensions differ or any value is not storable.
func (b *Board) LoadRows(rows [][]int) bool {
	if len(rows) != b.height {
		return false
	}
	for _, row := range rows {
		if len(row) != b.width {
			return false
		}
		for _, v := range row {
			if v < CellEmpty || v > CellGarbage {
				return false
			}
		}
	}
	for y := range rows {
		copy(b.grid[y], rows[y])
	}
	return true
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := NewBoard(b.width, b.height)
	c.LoadRows(b.grid)
	return c
}

// removeRow deletes row y, shifting everything above it down by one and
// leaving an empty top row.
func (b *Board) removeRow(y int) {
	for row := y; row > 0; row-- {
		copy(b.grid[row], b.grid[row-1])
	}
	for x := range b.grid[0] {
		b.grid[0][x] = CellEmpty
	}
}
