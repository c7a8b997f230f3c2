package engine

import (
	"math"
	"math/rand/v2"
)

// Timing defaults, in milliseconds.
const (
	DefaultLockDelay = 500
	DefaultBaseDrop  = 1000
	DefaultMinDrop   = 50
	MaxSpeedLevel    = 20
)

const (
	hardDropPoints = 2 // per row descended

	// The garbage hole generator runs on its own stream so attacks never
	// disturb the piece sequence.
	garbageSeedMixer   = 0x6a09e667f3bcc909
	garbageStreamMixer = 0xbb67ae8584caa73b
)

// wallKicks are tried in order when a rotation lands in an illegal spot.
var wallKicks = [...]Point{{-1, 0}, {1, 0}, {-2, 0}, {2, 0}, {0, -1}}

// Options configures a Game. Zero values fall back to the defaults.
type Options struct {
	Width  int
	Height int
	Seed   int64

	LockDelay        float64 // ms the piece may rest before it locks
	BaseDropInterval float64 // ms per row at level 1
	MinDropInterval  float64 // floor of the speed curve
	GravityScaling   bool    // speed up with level
	AllowHold        bool

	// Resolver handles the board after each lock. Nil clears lines immediately.
	Resolver Resolver
}

// DefaultOptions returns the standard single-player rules.
func DefaultOptions() Options {
	return Options{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		LockDelay:        DefaultLockDelay,
		BaseDropInterval: DefaultBaseDrop,
		MinDropInterval:  DefaultMinDrop,
		GravityScaling:   true,
	}
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.LockDelay <= 0 {
		o.LockDelay = DefaultLockDelay
	}
	if o.BaseDropInterval <= 0 {
		o.BaseDropInterval = DefaultBaseDrop
	}
	if o.MinDropInterval <= 0 {
		o.MinDropInterval = DefaultMinDrop
	}
	if o.Resolver == nil {
		o.Resolver = ImmediateResolver{}
	}
	return o
}

// ClearEvent describes one clear pass.
type ClearEvent struct {
	Rows   []int // row indices before removal, bottom first
	Chain  int   // 1 for the clear caused directly by a lock
	Points int
}

// TurnEvent is emitted once a locked piece has been fully resolved.
type TurnEvent struct {
	Lines    int // all lines cleared during the turn, chains included
	HardDrop bool
}

// Hooks observe a Game. Any field may be nil.
type Hooks struct {
	OnClear    func(ClearEvent)
	OnTurn     func(TurnEvent)
	OnGameOver func()
}

// Game is the authoritative state of one player's playfield.
// It is not safe for concurrent use.
type Game struct {
	opts     Options
	resolver Resolver
	hooks    []Hooks

	board      *Board
	bag        *Bag
	garbageSrc *rand.PCG
	garbageRNG *rand.Rand

	current *Piece
	next    *Piece
	held    *Piece

	score int
	level int
	lines int

	gameOver  bool
	paused    bool
	holdUsed  bool
	resolving bool

	locking   bool
	lockTimer float64
	dropTimer float64

	turn TurnEvent
}

// NewGame creates a game and spawns the first piece.
func NewGame(opts Options) *Game {
	opts = opts.normalized()
	g := &Game{
		opts:     opts,
		resolver: opts.Resolver,
		board:    NewBoard(opts.Width, opts.Height),
	}
	g.Reset(opts.Seed)
	return g
}

// Reset starts a fresh game with the given seed. Hooks are kept.
func (g *Game) Reset(seed int64) {
	g.opts.Seed = seed
	g.board.Clear()
	g.bag = NewBag(seed)
	g.garbageSrc = rand.NewPCG(uint64(seed)^garbageSeedMixer, garbageStreamMixer)
	g.garbageRNG = rand.New(g.garbageSrc)
	g.resolver.Reset()

	g.score = 0
	g.level = 1
	g.lines = 0
	g.gameOver = false
	g.paused = false
	g.holdUsed = false
	g.resolving = false
	g.locking = false
	g.lockTimer = 0
	g.dropTimer = 0
	g.turn = TurnEvent{}
	g.held = nil

	g.current = g.spawn(g.bag.Next())
	g.next = g.spawn(g.bag.Next())
	if !g.canPlace(g.current) {
		g.endGame()
	}
}

// Observe registers hooks. They run synchronously inside the mutating call.
func (g *Game) Observe(h Hooks) {
	g.hooks = append(g.hooks, h)
}

// Board returns the live board. Callers must treat it as read-only.
func (g *Game) Board() *Board { return g.board }

// Current returns a copy of the falling piece, or nil while a cascade resolves.
func (g *Game) Current() *Piece { return clonePiece(g.current) }

// Next returns a copy of the queued piece.
func (g *Game) Next() *Piece { return clonePiece(g.next) }

// Held returns a copy of the held piece, or nil.
func (g *Game) Held() *Piece { return clonePiece(g.held) }

// Score returns the accumulated score.
func (g *Game) Score() int { return g.score }

// Level returns the current level, lines/10 + 1.
func (g *Game) Level() int { return g.level }

// Lines returns the total lines cleared.
func (g *Game) Lines() int { return g.lines }

// IsGameOver reports whether the game has ended.
func (g *Game) IsGameOver() bool { return g.gameOver }

// IsPaused reports whether updates and moves are suspended.
func (g *Game) IsPaused() bool { return g.paused }

// AllowHold reports whether Hold is enabled.
func (g *Game) AllowHold() bool { return g.opts.AllowHold }

// HoldUsed reports whether the hold has been spent this turn.
func (g *Game) HoldUsed() bool { return g.holdUsed }

// Resolving reports whether a multi-step resolution is in progress.
func (g *Game) Resolving() bool { return g.resolving }

// LockTimer returns how long the piece has rested without being able to fall.
func (g *Game) LockTimer() float64 { return g.lockTimer }

// Locking reports whether the piece is resting on something.
func (g *Game) Locking() bool { return g.locking }

// Options returns the effective options.
func (g *Game) Options() Options { return g.opts }

// SetPaused suspends or resumes the game. No-op after game over.
func (g *Game) SetPaused(paused bool) {
	if g.gameOver {
		return
	}
	g.paused = paused
}

// TogglePause flips the paused flag.
func (g *Game) TogglePause() {
	g.SetPaused(!g.paused)
}

// ForceGameOver ends the game from outside, e.g. when a match is abandoned.
func (g *Game) ForceGameOver() {
	if g.gameOver {
		return
	}
	g.endGame()
}

// MoveLeft shifts the piece one column left if legal.
func (g *Game) MoveLeft() bool {
	return g.tryMove(-1, 0)
}

// MoveRight shifts the piece one column right if legal.
func (g *Game) MoveRight() bool {
	return g.tryMove(1, 0)
}

// MoveDown drops the piece one row. A successful move resets the lock
// timer; a failed one arms the lock phase, and Update locks the piece once
// the lock delay has elapsed.
func (g *Game) MoveDown() bool {
	if !g.active() {
		return false
	}
	if g.tryMove(0, 1) {
		g.locking = false
		g.lockTimer = 0
		return true
	}
	g.locking = true
	return false
}

// Rotate turns the piece clockwise, trying wall kicks if needed.
func (g *Game) Rotate() bool {
	return g.rotate((*Piece).Rotate, (*Piece).RotateCounterClockwise)
}

// RotateCounterClockwise turns the piece counter-clockwise, trying wall kicks if needed.
func (g *Game) RotateCounterClockwise() bool {
	return g.rotate((*Piece).RotateCounterClockwise, (*Piece).Rotate)
}

func (g *Game) rotate(turn, undo func(*Piece)) bool {
	if !g.active() {
		return false
	}
	p := g.current
	turn(p)
	if g.canPlace(p) {
		return true
	}
	for _, k := range wallKicks {
		p.Move(k.X, k.Y)
		if g.canPlace(p) {
			return true
		}
		p.Move(-k.X, -k.Y)
	}
	undo(p)
	return false
}

// HardDrop drops the piece as far as it goes, scoring 2 points per row,
// and locks it. It returns the lines cleared by the lock.
func (g *Game) HardDrop() int {
	if !g.active() {
		return 0
	}
	cells := 0
	for g.canMoveBy(g.current, 0, 1) {
		g.current.Move(0, 1)
		cells++
	}
	g.score += cells * hardDropPoints
	return g.lockPiece(true)
}

// Hold stashes the current piece, once per turn. The first hold of a game
// takes the next piece from the queue; later holds swap with the held piece.
func (g *Game) Hold() bool {
	if !g.opts.AllowHold || g.holdUsed || !g.active() {
		return false
	}
	stashed := g.current.Type()
	if g.held == nil {
		g.advanceQueue()
	} else {
		g.current = g.spawn(g.held.Type())
	}
	g.held = g.spawn(stashed)
	g.holdUsed = true
	g.locking = false
	g.lockTimer = 0
	g.dropTimer = 0
	if !g.canPlace(g.current) {
		g.endGame()
	}
	return true
}

// GhostPiece returns where the current piece would land, or nil.
func (g *Game) GhostPiece() *Piece {
	if g.current == nil {
		return nil
	}
	ghost := g.current.Clone()
	for g.canMoveBy(ghost, 0, 1) {
		ghost.Move(0, 1)
	}
	return ghost
}

// DropInterval returns the ms between gravity steps at the current level.
// With scaling it follows (0.8 - (L-1)*0.007)^(L-1), floored at the minimum.
func (g *Game) DropInterval() float64 {
	base := g.opts.BaseDropInterval
	if !g.opts.GravityScaling {
		return base
	}
	level := g.level
	if level < 1 {
		level = 1
	}
	if level > MaxSpeedLevel {
		level = MaxSpeedLevel
	}
	n := float64(level - 1)
	return math.Max(base*math.Pow(0.8-n*0.007, n), g.opts.MinDropInterval)
}

// Update advances time by dt milliseconds. Gravity catches up on every
// interval crossed; resting pieces accumulate lock delay instead.
func (g *Game) Update(dt float64) {
	if g.gameOver || g.paused || dt <= 0 {
		return
	}
	if g.resolving {
		if g.resolver.Step(g, dt) {
			g.resolving = false
			g.finishTurn()
		}
		return
	}
	if g.current == nil {
		return
	}

	if g.canMoveBy(g.current, 0, 1) {
		g.locking = false
		g.lockTimer = 0
		g.dropTimer += dt
		interval := g.DropInterval()
		for g.dropTimer >= interval {
			g.dropTimer -= interval
			if !g.MoveDown() {
				g.dropTimer = 0
				break
			}
		}
		return
	}

	g.locking = true
	g.dropTimer = 0
	g.lockTimer += dt
	if g.lockTimer >= g.opts.LockDelay {
		g.lockPiece(false)
	}
}

// ReceiveGarbage pushes count garbage rows into the board. A piece that
// now overlaps is lifted; if it cannot be lifted clear, the game ends.
func (g *Game) ReceiveGarbage(count int) {
	if count <= 0 || g.gameOver {
		return
	}
	InjectGarbage(g.board, count, g.garbageRNG)
	if g.current == nil || g.canPlace(g.current) {
		return
	}
	for i := 0; i < count; i++ {
		g.current.Move(0, -1)
		if g.canPlace(g.current) {
			return
		}
	}
	g.endGame()
}

func (g *Game) active() bool {
	return !g.gameOver && !g.paused && !g.resolving && g.current != nil
}

func (g *Game) tryMove(dx, dy int) bool {
	if !g.active() {
		return false
	}
	g.current.Move(dx, dy)
	if g.canPlace(g.current) {
		return true
	}
	g.current.Move(-dx, -dy)
	return false
}

func (g *Game) canPlace(p *Piece) bool {
	for _, b := range p.Blocks() {
		if !g.board.IsCellEmpty(b.X, b.Y) {
			return false
		}
	}
	return true
}

func (g *Game) canMoveBy(p *Piece, dx, dy int) bool {
	for _, b := range p.Blocks() {
		if !g.board.IsCellEmpty(b.X+dx, b.Y+dy) {
			return false
		}
	}
	return true
}

func (g *Game) spawn(t PieceType) *Piece {
	return NewPiece(t, (g.board.width-4)/2, 0)
}

// advanceQueue promotes the next piece and draws a new one.
func (g *Game) advanceQueue() {
	g.current = g.spawn(g.next.Type())
	g.next = g.spawn(g.bag.Next())
}

func (g *Game) lockPiece(hardDrop bool) int {
	color := g.current.Type().Color()
	for _, b := range g.current.Blocks() {
		g.board.SetCell(b.X, b.Y, color)
	}
	g.current = nil
	g.holdUsed = false
	g.locking = false
	g.lockTimer = 0
	g.dropTimer = 0
	g.turn = TurnEvent{HardDrop: hardDrop}

	lines, pending := g.resolver.Resolve(g)
	if pending {
		g.resolving = true
		return lines
	}
	g.finishTurn()
	return lines
}

// award applies the score for one clear pass. The chain multiplies the
// line score; level is recomputed afterwards.
func (g *Game) award(rows []int, chain int) {
	points := CalculateScore(len(rows), g.level) * chain
	g.score += points
	g.lines += len(rows)
	g.level = g.lines/10 + 1
	g.turn.Lines += len(rows)

	ev := ClearEvent{Rows: rows, Chain: chain, Points: points}
	for _, h := range g.hooks {
		if h.OnClear != nil {
			h.OnClear(ev)
		}
	}
}

func (g *Game) finishTurn() {
	ev := g.turn
	g.turn = TurnEvent{}
	for _, h := range g.hooks {
		if h.OnTurn != nil {
			h.OnTurn(ev)
		}
	}
	if g.gameOver {
		return
	}
	g.advanceQueue()
	if !g.canPlace(g.current) {
		g.endGame()
	}
}

func (g *Game) endGame() {
	g.gameOver = true
	g.paused = false
	for _, h := range g.hooks {
		if h.OnGameOver != nil {
			h.OnGameOver()
		}
	}
}

func clonePiece(p *Piece) *Piece {
	if p == nil {
		return nil
	}
	return p.Clone()
}
