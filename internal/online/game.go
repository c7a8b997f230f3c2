package online

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

// Transport delivers frames to the relay. Send must not block.
type Transport interface {
	Send(env Envelope) error
}

// Attack modes.
const (
	AttackLines   = "lines"   // clears of n >= 2 send n-1 rows
	AttackGarbage = "garbage" // rows follow the garbage table
)

// Phase is where the client is in the match lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWaiting
	PhaseCountdown
	PhasePlaying
)

// Outcome is the local result of a match.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
	OutcomeLose
)

// String returns a display label.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "You win!"
	case OutcomeDraw:
		return "Draw"
	case OutcomeLose:
		return "You lose"
	default:
		return ""
	}
}

// Options configures an online game.
type Options struct {
	Engine        engine.Options
	Cascade       bool
	CascadeStepMs float64
	ShowGhost     bool
	AttackMode    string
	GarbageTable  engine.GarbageTable
	Countdown     int // seconds before play starts
	PlayerName    string
}

// Game wraps a local engine with the versus protocol: countdown, state
// mirroring, attacks and win/draw resolution.
type Game struct {
	opts      Options
	transport Transport
	logger    *log.Logger

	eng     *engine.Game
	special *engine.SpecialGame
	hooks   []engine.Hooks
	round   int64

	phase      Phase
	room       RoomStatus
	attackMode string
	showGhost  bool
	cascade    bool

	opponent          OpponentView
	opponentConnected bool
	opponentID        string
	matchID           string
	isHost            bool

	opponentGameOver bool
	isWinner         bool
	isDraw           bool
	winScore         int

	countdown      *int
	countdownTimer *Timer
	matchClock     *Timer
}

// NewGame creates an idle online game. A nil logger uses log.Default().
func NewGame(opts Options, transport Transport, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	if opts.AttackMode != AttackLines {
		opts.AttackMode = AttackGarbage
	}
	if opts.GarbageTable == nil {
		opts.GarbageTable = engine.DefaultGarbageTable()
	}
	if opts.Countdown < 0 {
		opts.Countdown = 0
	}
	g := &Game{
		opts:           opts,
		transport:      transport,
		logger:         logger,
		attackMode:     opts.AttackMode,
		showGhost:      opts.ShowGhost,
		countdownTimer: NewTimer(1000),
		matchClock:     NewTimer(1000),
	}
	g.buildEngine(opts.Cascade)
	return g
}

func (g *Game) buildEngine(cascade bool) {
	g.cascade = cascade
	if cascade {
		g.special = engine.NewSpecialGame(g.opts.Engine, g.opts.CascadeStepMs)
		g.eng = g.special.Game
	} else {
		g.special = nil
		g.eng = engine.NewGame(g.opts.Engine)
	}
	g.eng.Observe(engine.Hooks{
		OnTurn:     g.onTurn,
		OnGameOver: g.onGameOver,
	})
	for _, h := range g.hooks {
		g.eng.Observe(h)
	}
	// Nothing falls until the match starts.
	g.eng.SetPaused(true)
}

// Observe registers engine hooks that survive an engine rebuild when the
// host's settings switch gravity modes.
func (g *Game) Observe(h engine.Hooks) {
	g.hooks = append(g.hooks, h)
	g.eng.Observe(h)
}

// Join asks the relay for a match, offering our settings in case we host.
func (g *Game) Join() {
	g.send(MsgJoinGame, JoinGame{Name: g.opts.PlayerName, Settings: &HostSettings{
		AttackMode:        g.opts.AttackMode,
		ShowGhostPiece:    g.opts.ShowGhost,
		UseCascadeGravity: g.opts.Cascade,
	}})
}

// HandleMessage processes one raw frame. Malformed frames are logged and dropped.
func (g *Game) HandleMessage(data []byte) {
	env, err := Decode(data)
	if err != nil {
		g.logger.Warn("dropping message", "err", err)
		return
	}
	g.Handle(env)
}

// Handle processes one decoded frame.
func (g *Game) Handle(env Envelope) {
	var err error
	switch env.Type {
	case MsgRoomStatus:
		var p RoomStatus
		if err = env.Into(&p); err == nil {
			g.handleRoomStatus(p)
		}
	case MsgWaiting:
		g.phase = PhaseWaiting
		g.isHost = true
	case MsgGameStart:
		var p GameStart
		if err = env.Into(&p); err == nil {
			g.handleGameStart(p)
		}
	case MsgGameState:
		var p GameState
		if err = env.Into(&p); err == nil {
			g.opponent = g.opponent.withState(p)
		}
	case MsgAttack:
		var p Attack
		if err = env.Into(&p); err == nil {
			g.handleAttack(p)
		}
	case MsgPause:
		g.handleRemotePause(true)
	case MsgResume:
		g.handleRemotePause(false)
	case MsgGameOver:
		g.handleOpponentGameOver()
	case MsgPlayerLeft:
		g.handlePlayerLeft()
	case MsgServerError:
		var p ServerError
		if err = env.Into(&p); err == nil {
			g.logger.Error("relay error", "message", p.Message)
		}
	default:
		g.logger.Debug("ignoring message", "type", env.Type)
	}
	if err != nil {
		g.logger.Warn("dropping message", "type", env.Type, "err", err)
	}
}

func (g *Game) handleRoomStatus(p RoomStatus) {
	g.room = p
	if p.HasHost && p.HostSettings != nil {
		g.applySettings(*p.HostSettings)
	}
}

func (g *Game) applySettings(s HostSettings) {
	switch s.AttackMode {
	case AttackLines, AttackGarbage:
		g.attackMode = s.AttackMode
	}
	g.showGhost = s.ShowGhostPiece
	if s.UseCascadeGravity != g.cascade {
		g.buildEngine(s.UseCascadeGravity)
	}
}

func (g *Game) handleGameStart(p GameStart) {
	g.Reset()
	if p.Settings != nil {
		g.applySettings(*p.Settings)
	}
	switch p.AttackMode {
	case AttackLines, AttackGarbage:
		g.attackMode = p.AttackMode
	}
	g.opponentID = p.OpponentID
	g.opponent.Name = p.OpponentName
	g.matchID = p.MatchID
	g.isHost = p.IsHost
	g.opponentConnected = true

	if g.opts.Countdown == 0 {
		g.startPlay()
		return
	}
	n := g.opts.Countdown
	g.countdown = &n
	g.countdownTimer.Start()
	g.phase = PhaseCountdown
}

func (g *Game) startPlay() {
	g.countdown = nil
	g.countdownTimer.Stop()
	g.phase = PhasePlaying
	g.matchClock.Start()
	g.eng.SetPaused(false)
	g.broadcastState()
}

func (g *Game) handleAttack(p Attack) {
	if p.Lines <= 0 || g.phase != PhasePlaying || g.eng.IsGameOver() {
		return
	}
	g.eng.ReceiveGarbage(p.Lines)
	if !g.eng.IsGameOver() {
		g.broadcastState()
	}
}

func (g *Game) handleRemotePause(paused bool) {
	g.opponent.Paused = paused
	if g.phase != PhasePlaying || g.eng.IsGameOver() || g.isWinner {
		return
	}
	g.eng.SetPaused(paused)
}

// handleOpponentGameOver resolves the match once. A local player who has
// already topped out draws; otherwise they win, the score is frozen for the
// win screen and play pauses until ContinueAfterWin.
func (g *Game) handleOpponentGameOver() {
	g.opponent.GameOver = true
	if g.opponentGameOver || g.isWinner || g.isDraw {
		return
	}
	g.opponentGameOver = true
	if g.eng.IsGameOver() {
		g.isDraw = true
		return
	}
	g.isWinner = true
	g.winScore = g.eng.Score()
	g.eng.SetPaused(true)
}

func (g *Game) handlePlayerLeft() {
	g.opponentConnected = false
	if g.countdown != nil {
		g.countdown = nil
		g.countdownTimer.Stop()
	}
	if g.phase == PhaseIdle || g.phase == PhaseWaiting {
		return
	}
	// A winner keeps playing solo; anyone else's match is over.
	if !g.isWinner && !g.eng.IsGameOver() {
		g.eng.ForceGameOver()
	}
}

// Apply feeds one local action into the match.
func (g *Game) Apply(a core.Action) {
	switch a {
	case core.ActionPause:
		g.TogglePause()
		return
	case core.ActionConfirm:
		g.ContinueAfterWin()
		return
	}
	if !g.CanMove() {
		return
	}
	switch a {
	case core.ActionMoveLeft:
		g.eng.MoveLeft()
	case core.ActionMoveRight:
		g.eng.MoveRight()
	case core.ActionSoftDrop:
		g.eng.MoveDown()
	case core.ActionRotate:
		g.eng.Rotate()
	case core.ActionRotateCCW:
		g.eng.RotateCounterClockwise()
	case core.ActionHardDrop:
		g.eng.HardDrop()
	case core.ActionHold:
		g.eng.Hold()
	}
}

// CanMove reports whether local input reaches the engine.
func (g *Game) CanMove() bool {
	return g.phase == PhasePlaying && g.countdown == nil && !g.eng.IsGameOver() && !g.eng.IsPaused()
}

// TogglePause pauses or resumes both peers. The win screen is left with
// ContinueAfterWin instead.
func (g *Game) TogglePause() {
	if g.phase != PhasePlaying || g.eng.IsGameOver() || (g.isWinner && g.eng.IsPaused()) {
		return
	}
	paused := !g.eng.IsPaused()
	g.eng.SetPaused(paused)
	if g.isWinner || !g.opponentConnected {
		return
	}
	if paused {
		g.send(MsgPause, nil)
	} else {
		g.send(MsgResume, nil)
	}
}

// ContinueAfterWin lets a winner keep playing alone.
func (g *Game) ContinueAfterWin() {
	if !g.isWinner || g.eng.IsGameOver() {
		return
	}
	g.eng.SetPaused(false)
}

// Update advances the countdown or the engine by dt milliseconds.
func (g *Game) Update(dt float64) {
	if g.countdown != nil {
		for n := g.countdownTimer.Advance(dt); n > 0 && g.countdown != nil; n-- {
			*g.countdown--
			if *g.countdown <= 0 {
				g.startPlay()
			}
		}
		return
	}
	if g.phase != PhasePlaying {
		return
	}
	if !g.eng.IsGameOver() {
		g.matchClock.Advance(dt)
	}
	g.eng.Update(dt)
}

// Reset clears the match outcome and restarts the local engine.
// Connection details are kept.
func (g *Game) Reset() {
	g.countdown = nil
	g.countdownTimer.Stop()
	g.matchClock.Stop()
	g.opponentGameOver = false
	g.isWinner = false
	g.isDraw = false
	g.winScore = 0
	g.opponent = OpponentView{Name: g.opponent.Name}
	g.round++
	g.eng.Reset(g.opts.Engine.Seed + g.round)
	g.eng.SetPaused(true)
	if g.phase == PhasePlaying || g.phase == PhaseCountdown {
		g.phase = PhaseIdle
	}
}

// Cleanup stops every timer and forgets the connection. Call it when the
// transport closes.
func (g *Game) Cleanup() {
	g.countdown = nil
	g.countdownTimer.Stop()
	g.matchClock.Stop()
	g.opponentConnected = false
	g.phase = PhaseIdle
}

func (g *Game) onTurn(ev engine.TurnEvent) {
	g.broadcastState()
	rows := g.attackRows(ev.Lines)
	if rows > 0 && g.opponentConnected && !g.opponent.GameOver {
		g.send(MsgAttack, Attack{Lines: rows})
	}
}

func (g *Game) attackRows(lines int) int {
	if g.attackMode == AttackLines {
		if lines >= 2 {
			return lines - 1
		}
		return 0
	}
	return g.opts.GarbageTable.RowsFor(lines)
}

// onGameOver reports the top-out. A player who already won stays silent so
// the peer does not turn its loss into a draw.
func (g *Game) onGameOver() {
	g.broadcastState()
	if g.isWinner || !g.opponentConnected {
		return
	}
	g.send(MsgGameOver, nil)
}

func (g *Game) broadcastState() {
	if !g.opponentConnected {
		return
	}
	g.send(MsgGameState, GameState{
		Grid:  g.eng.Board().Rows(),
		Score: g.eng.Score(),
		Lines: g.eng.Lines(),
	})
}

func (g *Game) send(t MessageType, payload any) {
	if g.transport == nil {
		return
	}
	env, err := NewEnvelope(t, payload)
	if err != nil {
		g.logger.Error("encode failed", "type", t, "err", err)
		return
	}
	if err := g.transport.Send(env); err != nil {
		g.logger.Warn("send failed", "type", t, "err", err)
	}
}

// Engine returns the local engine for rendering.
func (g *Game) Engine() *engine.Game { return g.eng }

// Special returns the cascade view of the engine, or nil.
func (g *Game) Special() *engine.SpecialGame { return g.special }

// Opponent returns the mirrored opponent state.
func (g *Game) Opponent() OpponentView { return g.opponent }

// Phase returns the lifecycle phase.
func (g *Game) Phase() Phase { return g.phase }

// Room returns the last room_status received.
func (g *Game) Room() RoomStatus { return g.room }

// Countdown returns the remaining countdown and whether one is running.
func (g *Game) Countdown() (int, bool) {
	if g.countdown == nil {
		return 0, false
	}
	return *g.countdown, true
}

// IsWinner reports a win.
func (g *Game) IsWinner() bool { return g.isWinner }

// IsDraw reports a draw.
func (g *Game) IsDraw() bool { return g.isDraw }

// WinScore returns the score frozen at the moment of winning.
func (g *Game) WinScore() int { return g.winScore }

// OpponentGameOver reports whether the opponent's top-out was processed.
func (g *Game) OpponentGameOver() bool { return g.opponentGameOver }

// OpponentConnected reports whether the opponent is still in the match.
func (g *Game) OpponentConnected() bool { return g.opponentConnected }

// OpponentID returns the relay's id for the opponent.
func (g *Game) OpponentID() string { return g.opponentID }

// MatchID returns the current match id.
func (g *Game) MatchID() string { return g.matchID }

// IsHost reports whether this client created the room.
func (g *Game) IsHost() bool { return g.isHost }

// AttackMode returns the attack mode in force.
func (g *Game) AttackMode() string { return g.attackMode }

// ShowGhost reports whether the ghost piece should be drawn.
func (g *Game) ShowGhost() bool { return g.showGhost }

// MatchDuration returns the time played in this match.
func (g *Game) MatchDuration() time.Duration {
	return time.Duration(g.matchClock.Elapsed() * float64(time.Millisecond))
}

// Outcome returns the local result so far.
func (g *Game) Outcome() Outcome {
	switch {
	case g.isDraw:
		return OutcomeDraw
	case g.isWinner:
		return OutcomeWin
	case g.eng.IsGameOver():
		return OutcomeLose
	default:
		return OutcomeNone
	}
}
