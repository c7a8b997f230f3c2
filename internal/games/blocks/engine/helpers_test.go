package engine

// fillRow fills row y with garbage except the listed columns.
func fillRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < b.Width(); x++ {
		if !skip[x] {
			b.SetCell(x, y, CellGarbage)
		}
	}
}

func countOccupied(b *Board) int {
	n := 0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.Cell(x, y) != CellEmpty {
				n++
			}
		}
	}
	return n
}

func countRow(b *Board, y, value int) int {
	n := 0
	for x := 0; x < b.Width(); x++ {
		if b.Cell(x, y) == value {
			n++
		}
	}
	return n
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 42
	return opts
}
