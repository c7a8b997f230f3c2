package engine

import "math/rand/v2"

// GarbageTable maps lines cleared by one hard drop to rows sent to the opponent.
type GarbageTable map[int]int

// DefaultGarbageTable is the standard versus table. Singles send nothing.
func DefaultGarbageTable() GarbageTable {
	return GarbageTable{2: 1, 3: 2, 4: 4}
}

// RowsFor returns the garbage rows owed for clearing lines at once.
func (t GarbageTable) RowsFor(lines int) int {
	return t[lines]
}

// InjectGarbage pushes count garbage rows in from the bottom. Each row shifts
// the board up by one, discarding the top row, and the new bottom row is
// filled with CellGarbage except for one random hole.
func InjectGarbage(b *Board, count int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		top := b.grid[0]
		copy(b.grid, b.grid[1:])
		hole := rng.IntN(b.width)
		for x := range top {
			top[x] = CellGarbage
		}
		top[hole] = CellEmpty
		b.grid[b.height-1] = top
	}
}
