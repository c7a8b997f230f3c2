package engine

import "sort"

// Block is an occupied cell together with its value.
type Block struct {
	X, Y  int
	Value int
}

// CascadeResult summarizes a full chain resolution.
type CascadeResult struct {
	LinesCleared int
	ChainCount   int
	Score        int
}

var neighbours = [4]Point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// FindFloatingBlocks returns every occupied cell that is not 4-connected,
// through occupied cells, to an occupied cell in the bottom row.
// The result is in row-major order.
func FindFloatingBlocks(b *Board) []Block {
	grounded := make([][]bool, b.height)
	for y := range grounded {
		grounded[y] = make([]bool, b.width)
	}

	bottom := b.height - 1
	queue := make([]Point, 0, b.width)
	for x := 0; x < b.width; x++ {
		if b.grid[bottom][x] != CellEmpty {
			grounded[bottom][x] = true
			queue = append(queue, Point{X: x, Y: bottom})
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range neighbours {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !b.IsValidPosition(nx, ny) || grounded[ny][nx] || b.grid[ny][nx] == CellEmpty {
				continue
			}
			grounded[ny][nx] = true
			queue = append(queue, Point{X: nx, Y: ny})
		}
	}

	var floating []Block
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.grid[y][x] != CellEmpty && !grounded[y][x] {
				floating = append(floating, Block{X: x, Y: y, Value: b.grid[y][x]})
			}
		}
	}
	return floating
}

// ApplyGravity drops every floating block by at most one row.
// Lowest blocks move first so a block is never held up by one above it that
// has not moved yet. Reports whether anything moved.
func ApplyGravity(b *Board) bool {
	floating := FindFloatingBlocks(b)
	sort.SliceStable(floating, func(i, j int) bool {
		return floating[i].Y > floating[j].Y
	})

	moved := false
	for _, blk := range floating {
		if !b.IsCellEmpty(blk.X, blk.Y+1) {
			continue
		}
		b.grid[blk.Y][blk.X] = CellEmpty
		b.grid[blk.Y+1][blk.X] = blk.Value
		moved = true
	}
	return moved
}

// settle applies gravity until nothing moves.
func settle(b *Board) {
	// Every productive pass moves some block down a row, so this bounds it.
	for i := 0; i < b.height*b.width; i++ {
		if !ApplyGravity(b) {
			return
		}
	}
}

// CascadeClear resolves a whole chain at once: clear, settle, repeat until a
// clear pass finds nothing. Each successive clear is multiplied by its
// position in the chain.
func CascadeClear(b *Board, level int) CascadeResult {
	var res CascadeResult
	for {
		lines := CheckAndClearLines(b)
		if lines == 0 {
			return res
		}
		res.ChainCount++
		res.LinesCleared += lines
		res.Score += CalculateScore(lines, level) * res.ChainCount
		settle(b)
	}
}
