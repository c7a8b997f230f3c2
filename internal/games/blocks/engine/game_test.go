package engine

import "testing"

func TestNewGameSpawns(t *testing.T) {
	g := NewGame(testOptions())

	cur := g.Current()
	if cur == nil || g.Next() == nil {
		t.Fatal("expected current and next pieces")
	}
	if cur.X != 3 || cur.Y != 0 || cur.Rotation != 0 {
		t.Errorf("spawn = (%d,%d) r%d, want (3,0) r0", cur.X, cur.Y, cur.Rotation)
	}
	if g.Held() != nil {
		t.Error("held piece should start empty")
	}
	if g.Level() != 1 || g.Score() != 0 || g.Lines() != 0 {
		t.Errorf("level/score/lines = %d/%d/%d, want 1/0/0", g.Level(), g.Score(), g.Lines())
	}
	if g.AllowHold() {
		t.Error("hold should be off by default")
	}
}

func TestPieceAlwaysFourBlocks(t *testing.T) {
	for _, kind := range AllPieceTypes {
		p := NewPiece(kind, 0, 0)
		for r := 0; r < 4; r++ {
			seen := make(map[Point]bool)
			for _, b := range p.Blocks() {
				seen[b] = true
			}
			if len(seen) != 4 {
				t.Errorf("%s rotation %d has %d distinct cells", kind, r, len(seen))
			}
			p.Rotate()
		}
		if p.Rotation != 0 {
			t.Errorf("%s: four rotations left rotation %d", kind, p.Rotation)
		}
	}
}

func TestPieceCloneIndependent(t *testing.T) {
	p := NewPiece(PieceT, 2, 3)
	c := p.Clone()
	c.Move(1, 1)
	c.Rotate()
	if p.X != 2 || p.Y != 3 || p.Rotation != 0 {
		t.Error("clone shares state with the original")
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)

	for g.MoveLeft() {
	}
	for _, b := range g.current.Blocks() {
		if b.X < 0 {
			t.Fatalf("block escaped left wall: %+v", b)
		}
	}
	if g.current.X != -1 {
		t.Errorf("O piece X = %d, want -1 against the left wall", g.current.X)
	}

	for g.MoveRight() {
	}
	if g.current.X != 7 {
		t.Errorf("O piece X = %d, want 7 against the right wall", g.current.X)
	}
}

func TestRotateWallKick(t *testing.T) {
	g := NewGame(testOptions())
	p := NewPiece(PieceI, 7, 5)
	p.Rotation = 1 // vertical in column 9
	g.current = p

	if !g.Rotate() {
		t.Fatal("Rotate failed, expected a left kick")
	}
	if g.current.Rotation != 2 || g.current.X != 6 {
		t.Errorf("after kick: X=%d r%d, want X=6 r2", g.current.X, g.current.Rotation)
	}
}

func TestRotateRevertsWhenBlocked(t *testing.T) {
	g := NewGame(testOptions())
	b := g.Board()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if x == 5 && y >= 10 && y <= 13 {
				continue
			}
			b.SetCell(x, y, CellGarbage)
		}
	}
	p := NewPiece(PieceI, 3, 10)
	p.Rotation = 1
	g.current = p

	if g.Rotate() {
		t.Fatal("Rotate succeeded inside a sealed well")
	}
	if g.current.Rotation != 1 || g.current.X != 3 || g.current.Y != 10 {
		t.Errorf("piece not reverted: X=%d Y=%d r%d", g.current.X, g.current.Y, g.current.Rotation)
	}
	if g.RotateCounterClockwise() {
		t.Fatal("RotateCounterClockwise succeeded inside a sealed well")
	}
	if g.current.Rotation != 1 {
		t.Errorf("rotation = %d, want 1", g.current.Rotation)
	}
}

func TestLockDelay(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)
	for g.MoveDown() {
	}
	if !g.Locking() {
		t.Fatal("failed MoveDown should arm the lock phase")
	}

	g.Update(200)
	g.Update(200)
	if n := countOccupied(g.Board()); n != 0 {
		t.Fatalf("piece locked after 400ms (occupied=%d)", n)
	}
	if g.Current().Y != 18 {
		t.Fatalf("piece moved while resting: Y=%d", g.Current().Y)
	}

	g.Update(150)
	if n := countOccupied(g.Board()); n != 4 {
		t.Fatalf("piece not locked after 550ms (occupied=%d)", n)
	}
	if g.Current() == nil || g.Current().Y != 0 {
		t.Error("next piece not spawned after lock")
	}
}

func TestLockDelayResetsOnMobility(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)
	for g.MoveDown() {
	}

	g.Update(300)
	if g.LockTimer() != 300 {
		t.Fatalf("LockTimer = %v, want 300", g.LockTimer())
	}

	// Lift the piece: it can fall again, so the timer resets.
	g.current.Move(0, -1)
	g.Update(1)
	if g.LockTimer() != 0 {
		t.Errorf("LockTimer after regaining mobility = %v, want 0", g.LockTimer())
	}
	if !g.MoveDown() {
		t.Fatal("MoveDown back to the floor failed")
	}
	if g.LockTimer() != 0 {
		t.Errorf("LockTimer after MoveDown = %v, want 0", g.LockTimer())
	}

	g.Update(300)
	if countOccupied(g.Board()) != 0 {
		t.Fatal("timer was not reset: piece locked early")
	}
	g.Update(300)
	if countOccupied(g.Board()) != 4 {
		t.Error("piece did not lock after a full delay")
	}
}

func TestUpdateCatchesUp(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)

	g.Update(2500)
	if g.current.Y != 2 {
		t.Errorf("Y after 2500ms = %d, want 2", g.current.Y)
	}
	g.Update(500)
	if g.current.Y != 3 {
		t.Errorf("Y after 3000ms = %d, want 3", g.current.Y)
	}
}

func TestHardDropScoresAndLocks(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)

	if lines := g.HardDrop(); lines != 0 {
		t.Errorf("HardDrop cleared %d lines, want 0", lines)
	}
	if g.Score() != 36 {
		t.Errorf("Score = %d, want 36 (18 rows * 2)", g.Score())
	}
	b := g.Board()
	for _, p := range []Point{{4, 18}, {5, 18}, {4, 19}, {5, 19}} {
		if b.Cell(p.X, p.Y) != PieceO.Color() {
			t.Errorf("Cell(%d,%d) = %d, want %d", p.X, p.Y, b.Cell(p.X, p.Y), PieceO.Color())
		}
	}
}

func TestHardDropClearsLines(t *testing.T) {
	g := NewGame(testOptions())
	fillRow(g.Board(), 19, 4, 5)
	fillRow(g.Board(), 18, 4, 5)
	g.current = NewPiece(PieceO, 3, 0)

	var turns []TurnEvent
	g.Observe(Hooks{OnTurn: func(ev TurnEvent) { turns = append(turns, ev) }})

	if lines := g.HardDrop(); lines != 2 {
		t.Fatalf("HardDrop cleared %d lines, want 2", lines)
	}
	if g.Score() != 36+300 {
		t.Errorf("Score = %d, want 336", g.Score())
	}
	if g.Lines() != 2 || g.Level() != 1 {
		t.Errorf("lines/level = %d/%d, want 2/1", g.Lines(), g.Level())
	}
	if countOccupied(g.Board()) != 0 {
		t.Error("board should be empty after the double")
	}
	if len(turns) != 1 || turns[0].Lines != 2 || !turns[0].HardDrop {
		t.Errorf("turn events = %+v", turns)
	}
}

func TestLevelFollowsLines(t *testing.T) {
	g := NewGame(testOptions())
	for i := 0; i < 3; i++ {
		for y := 16; y < 20; y++ {
			fillRow(g.Board(), y, 5)
		}
		p := NewPiece(PieceI, 3, 0)
		p.Rotation = 1
		g.current = p
		if lines := g.HardDrop(); lines != 4 {
			t.Fatalf("round %d: HardDrop cleared %d, want 4", i, lines)
		}
		if want := g.Lines()/10 + 1; g.Level() != want {
			t.Errorf("level = %d, want %d for %d lines", g.Level(), want, g.Lines())
		}
	}
	if g.Level() != 2 {
		t.Errorf("level after 12 lines = %d, want 2", g.Level())
	}
}

func TestHoldDisabledByDefault(t *testing.T) {
	g := NewGame(testOptions())
	before := g.Current()

	if g.Hold() {
		t.Fatal("Hold succeeded with allowHold=false")
	}
	if g.Held() != nil {
		t.Error("held piece set while hold is disabled")
	}
	after := g.Current()
	if after.Type() != before.Type() || after.X != before.X || after.Y != before.Y {
		t.Error("current piece changed")
	}
}

func TestHoldOncePerTurn(t *testing.T) {
	opts := testOptions()
	opts.AllowHold = true
	g := NewGame(opts)

	first := g.Current().Type()
	queued := g.Next().Type()
	g.MoveLeft()

	if !g.Hold() {
		t.Fatal("first Hold failed")
	}
	if g.Held().Type() != first {
		t.Errorf("held = %s, want %s", g.Held().Type(), first)
	}
	if g.Current().Type() != queued {
		t.Errorf("current = %s, want %s from the queue", g.Current().Type(), queued)
	}

	cur := g.Current().Type()
	if g.Hold() {
		t.Fatal("second Hold in the same turn succeeded")
	}
	if g.Current().Type() != cur || g.Held().Type() != first {
		t.Error("second Hold changed pieces")
	}

	g.HardDrop()
	if g.HoldUsed() {
		t.Fatal("hold flag not cleared by lock")
	}
	if !g.Hold() {
		t.Fatal("Hold after lock failed")
	}
	if g.Current().Type() != first {
		t.Errorf("current after swap = %s, want %s", g.Current().Type(), first)
	}
	if c := g.Current(); c.X != 3 || c.Y != 0 || c.Rotation != 0 {
		t.Errorf("swapped piece not at spawn: (%d,%d) r%d", c.X, c.Y, c.Rotation)
	}
}

func TestGhostPiece(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)
	g.Board().SetCell(4, 10, CellGarbage)

	ghost := g.GhostPiece()
	if ghost.Y != 8 {
		t.Errorf("ghost Y = %d, want 8", ghost.Y)
	}
	if g.current.Y != 0 {
		t.Error("GhostPiece moved the real piece")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 0)
	g.SetPaused(true)

	if g.MoveLeft() || g.Rotate() || g.HardDrop() != 0 {
		t.Error("input applied while paused")
	}
	g.Update(5000)
	if g.current.Y != 0 || g.current.X != 3 {
		t.Error("piece moved while paused")
	}
	g.TogglePause()
	if g.IsPaused() || !g.MoveLeft() {
		t.Error("unpause did not restore input")
	}
}

func TestGameOverOnBlockedSpawn(t *testing.T) {
	g := NewGame(testOptions())
	overs := 0
	g.Observe(Hooks{OnGameOver: func() { overs++ }})

	g.current = NewPiece(PieceO, -1, 0)
	for x := 3; x <= 6; x++ {
		g.Board().SetCell(x, 0, CellGarbage)
		g.Board().SetCell(x, 1, CellGarbage)
	}
	g.HardDrop()

	if !g.IsGameOver() {
		t.Fatal("expected game over")
	}
	if overs != 1 {
		t.Errorf("OnGameOver fired %d times, want 1", overs)
	}
	g.Update(1000)
	g.ForceGameOver()
	if overs != 1 {
		t.Errorf("OnGameOver fired again after game over")
	}
}

func TestDropIntervalCurve(t *testing.T) {
	g := NewGame(testOptions())
	prev := g.DropInterval()
	if prev != 1000 {
		t.Fatalf("level 1 interval = %v, want 1000", prev)
	}
	for level := 2; level <= 40; level++ {
		g.level = level
		iv := g.DropInterval()
		if iv <= 0 {
			t.Fatalf("level %d interval = %v, must be positive", level, iv)
		}
		if iv > prev {
			t.Errorf("level %d interval %v > level %d interval %v", level, iv, level-1, prev)
		}
		prev = iv
	}

	opts := testOptions()
	opts.GravityScaling = false
	flat := NewGame(opts)
	for _, level := range []int{1, 5, 15, 30} {
		flat.level = level
		if iv := flat.DropInterval(); iv != 1000 {
			t.Errorf("unscaled level %d interval = %v, want 1000", level, iv)
		}
	}
}

func TestReceiveGarbageLiftsPiece(t *testing.T) {
	g := NewGame(testOptions())
	g.current = NewPiece(PieceO, 3, 17) // rows 17-18
	g.ReceiveGarbage(2)

	if g.IsGameOver() {
		t.Fatal("game over although the piece can be lifted")
	}
	if g.current.Y != 16 {
		t.Errorf("piece Y = %d, want 16", g.current.Y)
	}
	for y := 18; y < 20; y++ {
		if countRow(g.Board(), y, CellGarbage) != 9 || countRow(g.Board(), y, CellEmpty) != 1 {
			t.Errorf("row %d is not a garbage row with one hole", y)
		}
	}
}

func TestDeterministicSequence(t *testing.T) {
	a := NewGame(testOptions())
	b := NewGame(testOptions())
	for i := 0; i < 30 && !a.IsGameOver(); i++ {
		if a.Current().Type() != b.Current().Type() {
			t.Fatalf("piece %d differs: %s vs %s", i, a.Current().Type(), b.Current().Type())
		}
		a.HardDrop()
		b.HardDrop()
	}
}
