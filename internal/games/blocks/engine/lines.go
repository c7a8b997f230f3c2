package engine

// lineScores is the classic base score per number of lines cleared at once.
var lineScores = [5]int{0, 100, 300, 500, 800}

// ClearLines removes every complete row and returns their indices as they
// were before removal, bottom row first.
func ClearLines(b *Board) []int {
	var full []int
	for y := b.height - 1; y >= 0; y-- {
		if b.IsRowFull(y) {
			full = append(full, y)
		}
	}
	// Removing a row shifts the rows above it down, so work top-first to keep
	// the remaining indices valid.
	for i := len(full) - 1; i >= 0; i-- {
		b.removeRow(full[i])
	}
	return full
}

// CheckAndClearLines clears complete rows and returns how many were removed.
func CheckAndClearLines(b *Board) int {
	return len(ClearLines(b))
}

// CalculateScore returns the points for clearing lines at once at level.
// More than four lines scores as four; zero or negative scores nothing.
func CalculateScore(lines, level int) int {
	if lines <= 0 {
		return 0
	}
	if lines > 4 {
		lines = 4
	}
	return lineScores[lines] * level
}
