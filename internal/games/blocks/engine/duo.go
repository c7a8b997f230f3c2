package engine

// DuoGame runs two independent playfields side by side with a shared pause.
// Hard drops that clear two or more lines send garbage to the other side.
type DuoGame struct {
	players [2]*Game
	table   GarbageTable
	winner  int
	paused  bool
}

// NewDuoGame creates a duo match. Both players draw the same piece sequence.
// A nil table uses DefaultGarbageTable.
func NewDuoGame(opts Options, table GarbageTable) *DuoGame {
	if table == nil {
		table = DefaultGarbageTable()
	}
	d := &DuoGame{table: table}
	for i := range d.players {
		d.players[i] = NewGame(opts)
	}
	return d
}

// Reset restarts both players with seed and clears the winner.
func (d *DuoGame) Reset(seed int64) {
	for _, p := range d.players {
		p.Reset(seed)
	}
	d.winner = 0
	d.paused = false
}

// Player returns player 1 or 2, or nil for any other id.
func (d *DuoGame) Player(id int) *Game {
	if id < 1 || id > len(d.players) {
		return nil
	}
	return d.players[id-1]
}

// Opponent returns the other player of id.
func (d *DuoGame) Opponent(id int) *Game {
	return d.Player(3 - id)
}

// Winner returns 0 while undecided, else 1 or 2. Once set it never changes.
func (d *DuoGame) Winner() int { return d.winner }

// IsPaused reports the shared pause.
func (d *DuoGame) IsPaused() bool { return d.paused }

// SetPaused sets the shared pause. No-op once a winner exists.
func (d *DuoGame) SetPaused(paused bool) {
	if d.winner != 0 {
		return
	}
	d.paused = paused
}

// TogglePause flips the shared pause.
func (d *DuoGame) TogglePause() {
	d.SetPaused(!d.paused)
}

// Act runs fn against player id if the match is live, then re-checks the winner.
func (d *DuoGame) Act(id int, fn func(*Game)) {
	p := d.Player(id)
	if p == nil || d.paused || d.winner != 0 {
		return
	}
	fn(p)
	d.checkWinner()
}

// HardDrop hard-drops for player id and routes any attack to the opponent.
// It returns the lines cleared.
func (d *DuoGame) HardDrop(id int) int {
	p := d.Player(id)
	if p == nil || d.paused || d.winner != 0 {
		return 0
	}
	lines := p.HardDrop()
	if rows := d.table.RowsFor(lines); rows > 0 {
		d.Opponent(id).ReceiveGarbage(rows)
	}
	d.checkWinner()
	return lines
}

// Update ticks both players.
func (d *DuoGame) Update(dt float64) {
	if d.paused || d.winner != 0 {
		return
	}
	for _, p := range d.players {
		p.Update(dt)
	}
	d.checkWinner()
}

func (d *DuoGame) checkWinner() {
	if d.winner != 0 {
		return
	}
	p1, p2 := d.players[0], d.players[1]
	switch {
	case p1.IsGameOver() && p2.IsGameOver():
		if p1.Score() >= p2.Score() {
			d.winner = 1
		} else {
			d.winner = 2
		}
	case p1.IsGameOver():
		d.winner = 2
	case p2.IsGameOver():
		d.winner = 1
	}
}
