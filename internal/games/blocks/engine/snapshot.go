package engine

import (
	"encoding/json"
	"fmt"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// PieceState is the persisted form of a piece.
type PieceState struct {
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
}

// CascadeState is the persisted progress of a running cascade.
type CascadeState struct {
	Cascading bool    `json:"cascading"`
	Chain     int     `json:"chain"`
	Timer     float64 `json:"timer"`
}

// Snapshot is a complete, restorable picture of a Game.
type Snapshot struct {
	Version int     `json:"version"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Grid    [][]int `json:"grid"`

	Score    int  `json:"score"`
	Level    int  `json:"level"`
	Lines    int  `json:"lines"`
	Paused   bool `json:"paused"`
	GameOver bool `json:"gameOver"`
	HoldUsed bool `json:"holdUsed"`

	Current *PieceState `json:"current,omitempty"`
	Next    PieceState  `json:"next"`
	Held    *PieceState `json:"held,omitempty"`

	Queue      []string `json:"queue"`
	RNG        []byte   `json:"rng"`
	GarbageRNG []byte   `json:"garbageRng"`

	Locking   bool    `json:"locking"`
	LockTimer float64 `json:"lockTimer"`
	DropTimer float64 `json:"dropTimer"`

	Resolving    bool          `json:"resolving"`
	PendingLines int           `json:"pendingLines"`
	PendingHard  bool          `json:"pendingHard"`
	Cascade      *CascadeState `json:"cascade,omitempty"`
}

// Snapshot captures the game state.
func (g *Game) Snapshot() (Snapshot, error) {
	rngState, err := g.bag.State()
	if err != nil {
		return Snapshot{}, fmt.Errorf("engine: snapshot rng: %w", err)
	}
	garbageState, err := g.garbageSrc.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("engine: snapshot garbage rng: %w", err)
	}

	queue := g.bag.Remaining()
	names := make([]string, len(queue))
	for i, t := range queue {
		names[i] = t.String()
	}

	s := Snapshot{
		Version:      SnapshotVersion,
		Width:        g.board.width,
		Height:       g.board.height,
		Grid:         g.board.Rows(),
		Score:        g.score,
		Level:        g.level,
		Lines:        g.lines,
		Paused:       g.paused,
		GameOver:     g.gameOver,
		HoldUsed:     g.holdUsed,
		Current:      pieceState(g.current),
		Next:         *pieceState(g.next),
		Held:         pieceState(g.held),
		Queue:        names,
		RNG:          rngState,
		GarbageRNG:   garbageState,
		Locking:      g.locking,
		LockTimer:    g.lockTimer,
		DropTimer:    g.dropTimer,
		Resolving:    g.resolving,
		PendingLines: g.turn.Lines,
		PendingHard:  g.turn.HardDrop,
	}
	if c, ok := g.resolver.(*CascadeResolver); ok {
		s.Cascade = c.state()
	}
	return s, nil
}

// Serialize encodes the game as JSON.
func (g *Game) Serialize() ([]byte, error) {
	s, err := g.Snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// Deserialize restores the game from Serialize output. On error the game is unchanged.
func (g *Game) Deserialize(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("engine: decode snapshot: %w", err)
	}
	return g.Restore(s)
}

// Restore applies a snapshot. Options, resolver kind and hooks are kept.
// On error the game is unchanged.
func (g *Game) Restore(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("engine: unsupported snapshot version %d", s.Version)
	}
	if s.Width != g.board.width || s.Height != g.board.height {
		return fmt.Errorf("engine: snapshot is %dx%d, board is %dx%d",
			s.Width, s.Height, g.board.width, g.board.height)
	}
	board := NewBoard(s.Width, s.Height)
	if !board.LoadRows(s.Grid) {
		return fmt.Errorf("engine: snapshot grid is malformed")
	}
	if s.Score < 0 || s.Lines < 0 || s.Level < 1 {
		return fmt.Errorf("engine: snapshot counters out of range")
	}

	current, err := parsePieceState(s.Current)
	if err != nil {
		return err
	}
	next, err := parsePieceState(&s.Next)
	if err != nil {
		return err
	}
	held, err := parsePieceState(s.Held)
	if err != nil {
		return err
	}
	if current == nil && !s.Resolving && !s.GameOver {
		return fmt.Errorf("engine: snapshot has no current piece")
	}

	queue := make([]PieceType, len(s.Queue))
	for i, name := range s.Queue {
		t, ok := ParsePieceType(name)
		if !ok {
			return fmt.Errorf("engine: unknown piece %q in queue", name)
		}
		queue[i] = t
	}

	bag := NewBag(g.opts.Seed)
	if err := bag.Restore(queue, s.RNG); err != nil {
		return err
	}
	garbageSrc := *g.garbageSrc
	if len(s.GarbageRNG) > 0 {
		if err := garbageSrc.UnmarshalBinary(s.GarbageRNG); err != nil {
			return fmt.Errorf("engine: restore garbage rng: %w", err)
		}
	}

	g.board = board
	g.bag = bag
	*g.garbageSrc = garbageSrc
	g.current, g.next, g.held = current, next, held
	g.score, g.level, g.lines = s.Score, s.Level, s.Lines
	g.paused, g.gameOver, g.holdUsed = s.Paused, s.GameOver, s.HoldUsed
	g.locking, g.lockTimer, g.dropTimer = s.Locking, s.LockTimer, s.DropTimer
	g.resolving = s.Resolving
	g.turn = TurnEvent{Lines: s.PendingLines, HardDrop: s.PendingHard}
	if c, ok := g.resolver.(*CascadeResolver); ok {
		c.restore(s.Cascade)
	} else {
		g.resolver.Reset()
	}
	return nil
}

// LoadGame creates a game from Serialize output using opts for everything
// the snapshot does not carry.
func LoadGame(data []byte, opts Options) (*Game, error) {
	g := NewGame(opts)
	if err := g.Deserialize(data); err != nil {
		return nil, err
	}
	return g, nil
}

func pieceState(p *Piece) *PieceState {
	if p == nil {
		return nil
	}
	return &PieceState{Type: p.kind.String(), X: p.X, Y: p.Y, Rotation: p.Rotation}
}

func parsePieceState(s *PieceState) (*Piece, error) {
	if s == nil {
		return nil, nil
	}
	t, ok := ParsePieceType(s.Type)
	if !ok {
		return nil, fmt.Errorf("engine: unknown piece %q", s.Type)
	}
	if s.Rotation < 0 || s.Rotation > 3 {
		return nil, fmt.Errorf("engine: rotation %d out of range", s.Rotation)
	}
	return &Piece{kind: t, X: s.X, Y: s.Y, Rotation: s.Rotation}, nil
}
