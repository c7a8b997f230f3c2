package online

// OpponentView is a display copy of the opponent's last reported state.
// It never feeds back into local rule evaluation.
type OpponentView struct {
	Grid     [][]int
	Score    int
	Lines    int
	Name     string
	GameOver bool
	Paused   bool
}

// Cell returns the mirrored cell at (x, y), or -1 outside the last report.
func (v OpponentView) Cell(x, y int) int {
	if y < 0 || y >= len(v.Grid) || x < 0 || x >= len(v.Grid[y]) {
		return -1
	}
	return v.Grid[y][x]
}

// withState returns a copy updated from a game_state report. The grid is
// copied so later reports cannot alias it.
func (v OpponentView) withState(s GameState) OpponentView {
	grid := make([][]int, len(s.Grid))
	for y, row := range s.Grid {
		grid[y] = append([]int(nil), row...)
	}
	v.Grid = grid
	v.Score = s.Score
	v.Lines = s.Lines
	return v
}
