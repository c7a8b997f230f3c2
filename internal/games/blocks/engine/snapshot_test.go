package engine

import (
	"encoding/json"
	"testing"
)

func samePiece(a, b *Piece) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Type() == b.Type() && a.X == b.X && a.Y == b.Y && a.Rotation == b.Rotation
}

func playSome(g *Game) {
	g.HardDrop()
	g.MoveLeft()
	g.Rotate()
	g.Hold()
	g.HardDrop()
	g.MoveRight()
	g.MoveRight()
	g.HardDrop()
	g.Update(1700)
	g.Rotate()
}

func TestSerializeRoundTrip(t *testing.T) {
	opts := testOptions()
	opts.AllowHold = true
	g := NewGame(opts)
	playSome(g)
	g.ReceiveGarbage(1)
	g.SetPaused(true)

	data, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	other := opts
	other.Seed = 777 // state must come from the snapshot, not the seed
	r, err := LoadGame(data, other)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if r.Score() != g.Score() || r.Level() != g.Level() || r.Lines() != g.Lines() {
		t.Errorf("counters = %d/%d/%d, want %d/%d/%d",
			r.Score(), r.Level(), r.Lines(), g.Score(), g.Level(), g.Lines())
	}
	if r.IsPaused() != g.IsPaused() {
		t.Errorf("IsPaused = %v, want %v", r.IsPaused(), g.IsPaused())
	}
	if !samePiece(r.Current(), g.Current()) || !samePiece(r.Next(), g.Next()) || !samePiece(r.Held(), g.Held()) {
		t.Error("pieces differ after round trip")
	}
	for y := 0; y < g.Board().Height(); y++ {
		for x := 0; x < g.Board().Width(); x++ {
			if r.Board().Cell(x, y) != g.Board().Cell(x, y) {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, r.Board().Cell(x, y), g.Board().Cell(x, y))
			}
		}
	}

	// Both must now evolve identically, across bag refills and garbage holes.
	g.SetPaused(false)
	r.SetPaused(false)
	for i := 0; i < 25; i++ {
		if !samePiece(r.Next(), g.Next()) {
			t.Fatalf("step %d: next piece differs", i)
		}
		g.HardDrop()
		r.HardDrop()
		if i%5 == 0 {
			g.ReceiveGarbage(1)
			r.ReceiveGarbage(1)
		}
	}
	a, _ := g.Serialize()
	b, _ := r.Serialize()
	if string(a) != string(b) {
		t.Error("games diverged after restore")
	}
}

func TestSerializeMidCascade(t *testing.T) {
	g := NewSpecialGame(testOptions(), 500)
	b := g.Board()
	fillRow(b, 19, 0, 4, 5)
	fillRow(b, 18, 4, 5)
	b.SetCell(0, 17, 3)
	g.current = NewPiece(PieceO, 3, 0)
	g.HardDrop()
	g.Update(700)

	data, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	r := NewSpecialGame(testOptions(), 500)
	if err := r.Deserialize(data); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !r.IsCascading() || r.ChainCount() != 1 {
		t.Fatalf("restored cascading=%v chain=%d", r.IsCascading(), r.ChainCount())
	}
	r.Update(1000)
	g.Update(1000)
	if r.ChainCount() != g.ChainCount() || r.Score() != g.Score() || r.IsCascading() != g.IsCascading() {
		t.Errorf("restored cascade diverged: chain %d vs %d, score %d vs %d",
			r.ChainCount(), g.ChainCount(), r.Score(), g.Score())
	}
}

func TestDeserializeRejectsBadInput(t *testing.T) {
	g := NewGame(testOptions())
	g.HardDrop()
	score := g.Score()

	good, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	mutate := func(f func(*Snapshot)) []byte {
		s := good
		s.Grid = g.Board().Rows()
		if s.Current != nil {
			cur := *s.Current
			s.Current = &cur
		}
		f(&s)
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	cases := map[string][]byte{
		"not json":      []byte("{"),
		"version":       mutate(func(s *Snapshot) { s.Version = 2 }),
		"dimensions":    mutate(func(s *Snapshot) { s.Width = 12 }),
		"cell value":    mutate(func(s *Snapshot) { s.Grid[0][0] = 11 }),
		"piece type":    mutate(func(s *Snapshot) { s.Next.Type = "X" }),
		"rotation":      mutate(func(s *Snapshot) { s.Current.Rotation = 4 }),
		"queue":         mutate(func(s *Snapshot) { s.Queue = []string{"Q"} }),
		"negative":      mutate(func(s *Snapshot) { s.Score = -1 }),
		"missing piece": mutate(func(s *Snapshot) { s.Current = nil }),
	}
	for name, data := range cases {
		if err := g.Deserialize(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if g.Score() != score {
		t.Error("failed Deserialize changed the game")
	}
}
