package engine

import "testing"

func checkGarbageRows(t *testing.T, b *Board, from, to int) {
	t.Helper()
	for y := from; y <= to; y++ {
		if holes := countRow(b, y, CellEmpty); holes != 1 {
			t.Errorf("row %d has %d holes, want 1", y, holes)
		}
		if filled := countRow(b, y, CellGarbage); filled != b.Width()-1 {
			t.Errorf("row %d has %d garbage cells, want %d", y, filled, b.Width()-1)
		}
	}
}

func TestDuoDoubleSendsOneRow(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	p1, p2 := d.Player(1), d.Player(2)
	fillRow(p1.Board(), 19, 4, 5)
	fillRow(p1.Board(), 18, 4, 5)
	p1.current = NewPiece(PieceO, 3, 0)

	if lines := d.HardDrop(1); lines != 2 {
		t.Fatalf("HardDrop cleared %d, want 2", lines)
	}
	checkGarbageRows(t, p2.Board(), 19, 19)
	if n := countOccupied(p2.Board()); n != p2.Board().Width()-1 {
		t.Errorf("player 2 occupied = %d, want exactly one garbage row", n)
	}
	if countOccupied(p1.Board()) != 0 {
		t.Error("attacker received garbage")
	}
}

func TestDuoTetrisSendsFourRows(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	p1, p2 := d.Player(1), d.Player(2)
	for y := 16; y < 20; y++ {
		fillRow(p1.Board(), y, 5)
	}
	p := NewPiece(PieceI, 3, 0)
	p.Rotation = 1
	p1.current = p

	if lines := d.HardDrop(1); lines != 4 {
		t.Fatalf("HardDrop cleared %d, want 4", lines)
	}
	checkGarbageRows(t, p2.Board(), 16, 19)
	if n := countOccupied(p2.Board()); n != 4*(p2.Board().Width()-1) {
		t.Errorf("player 2 occupied = %d, want four garbage rows", n)
	}
}

func TestDuoSingleSendsNothing(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	fillRow(d.Player(2).Board(), 19, 4, 5)
	fillRow(d.Player(2).Board(), 18, 0, 4, 5)
	d.Player(2).current = NewPiece(PieceO, 3, 0)

	if lines := d.HardDrop(2); lines != 1 {
		t.Fatalf("HardDrop cleared %d, want 1", lines)
	}
	if n := countOccupied(d.Player(1).Board()); n != 0 {
		t.Errorf("single sent garbage: occupied = %d", n)
	}
}

func TestDuoWinner(t *testing.T) {
	tests := []struct {
		name       string
		over1      bool
		over2      bool
		score1     int
		score2     int
		wantWinner int
	}{
		{"player 2 tops out", false, true, 0, 0, 1},
		{"player 1 tops out", true, false, 500, 0, 2},
		{"both out, higher score", true, true, 100, 300, 2},
		{"both out, tie goes to player 1", true, true, 200, 200, 1},
		{"nobody out", false, false, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDuoGame(testOptions(), nil)
			d.Player(1).score = tt.score1
			d.Player(2).score = tt.score2
			if tt.over1 {
				d.Player(1).ForceGameOver()
			}
			if tt.over2 {
				d.Player(2).ForceGameOver()
			}
			d.Update(16)
			if d.Winner() != tt.wantWinner {
				t.Errorf("Winner = %d, want %d", d.Winner(), tt.wantWinner)
			}
		})
	}
}

func TestDuoWinnerIsPermanent(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	d.Player(2).ForceGameOver()
	d.Update(16)
	if d.Winner() != 1 {
		t.Fatalf("Winner = %d, want 1", d.Winner())
	}

	d.Player(1).ForceGameOver()
	d.Player(2).score = 10000
	d.Update(16)
	d.checkWinner()
	if d.Winner() != 1 {
		t.Errorf("winner changed to %d", d.Winner())
	}
}

func TestDuoPauseIsShared(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	d.Player(1).current = NewPiece(PieceO, 3, 0)
	d.TogglePause()

	if d.HardDrop(1) != 0 || countOccupied(d.Player(1).Board()) != 0 {
		t.Error("hard drop applied while paused")
	}
	moved := false
	d.Act(1, func(g *Game) { moved = g.MoveLeft() })
	if moved {
		t.Error("Act ran while paused")
	}
	d.Update(5000)
	if d.Player(1).current.Y != 0 {
		t.Error("gravity ran while paused")
	}

	d.TogglePause()
	d.Act(1, func(g *Game) { moved = g.MoveLeft() })
	if !moved {
		t.Error("Act did not run after unpause")
	}
}

func TestDuoPlayerBounds(t *testing.T) {
	d := NewDuoGame(testOptions(), nil)
	if d.Player(0) != nil || d.Player(3) != nil {
		t.Error("Player accepted an invalid id")
	}
	if d.HardDrop(7) != 0 {
		t.Error("HardDrop accepted an invalid id")
	}
}
