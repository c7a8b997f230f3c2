package online

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

type recorder struct {
	sent []Envelope
}

func (r *recorder) Send(env Envelope) error {
	r.sent = append(r.sent, env)
	return nil
}

func (r *recorder) count(t MessageType) int {
	n := 0
	for _, env := range r.sent {
		if env.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t MessageType) (Envelope, bool) {
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Type == t {
			return r.sent[i], true
		}
	}
	return Envelope{}, false
}

func frame(t *testing.T, typ MessageType, payload any) []byte {
	t.Helper()
	data, err := Encode(typ, payload)
	require.NoError(t, err)
	return data
}

func newTestGame(t *testing.T, countdown int) (*Game, *recorder) {
	t.Helper()
	opts := Options{
		Engine:     engine.DefaultOptions(),
		AttackMode: AttackGarbage,
		ShowGhost:  true,
		Countdown:  countdown,
		PlayerName: "alice",
	}
	opts.Engine.Seed = 7
	rec := &recorder{}
	return NewGame(opts, rec, log.New(io.Discard)), rec
}

// startedGame returns a game already past game_start with no countdown.
func startedGame(t *testing.T) (*Game, *recorder) {
	t.Helper()
	g, rec := newTestGame(t, 0)
	g.HandleMessage(frame(t, MsgGameStart, GameStart{
		OpponentID:   "p2",
		OpponentName: "bob",
		MatchID:      "m1",
		IsHost:       true,
	}))
	require.Equal(t, PhasePlaying, g.Phase())
	return g, rec
}

func TestJoinOffersSettings(t *testing.T) {
	g, rec := newTestGame(t, 3)
	g.Join()

	env, ok := rec.last(MsgJoinGame)
	require.True(t, ok)
	var join JoinGame
	require.NoError(t, env.Into(&join))
	assert.Equal(t, "alice", join.Name)
	require.NotNil(t, join.Settings)
	assert.Equal(t, AttackGarbage, join.Settings.AttackMode)
	assert.True(t, join.Settings.ShowGhostPiece)
	assert.False(t, join.Settings.UseCascadeGravity)
}

func TestEngineHeldUntilMatchStarts(t *testing.T) {
	g, _ := newTestGame(t, 3)
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.True(t, g.Engine().IsPaused())
	assert.False(t, g.CanMove())

	g.HandleMessage(frame(t, MsgWaiting, nil))
	assert.Equal(t, PhaseWaiting, g.Phase())
	assert.True(t, g.IsHost())
}

func TestCountdownSuppressesInput(t *testing.T) {
	g, rec := newTestGame(t, 3)
	g.HandleMessage(frame(t, MsgGameStart, GameStart{OpponentID: "p2", OpponentName: "bob", MatchID: "m1"}))

	n, running := g.Countdown()
	require.True(t, running)
	assert.Equal(t, 3, n)
	assert.Equal(t, PhaseCountdown, g.Phase())
	assert.Equal(t, "bob", g.Opponent().Name)
	assert.Equal(t, "m1", g.MatchID())

	x := g.Engine().Current().X
	g.Apply(core.ActionMoveLeft)
	assert.Equal(t, x, g.Engine().Current().X, "moves are ignored during the countdown")

	g.Update(999)
	n, _ = g.Countdown()
	assert.Equal(t, 3, n)
	g.Update(1)
	n, _ = g.Countdown()
	assert.Equal(t, 2, n)
	assert.Zero(t, rec.count(MsgGameState))

	g.Update(2000)
	_, running = g.Countdown()
	assert.False(t, running)
	assert.Equal(t, PhasePlaying, g.Phase())
	assert.True(t, g.CanMove())
	assert.Equal(t, 1, rec.count(MsgGameState), "state is broadcast when play begins")

	g.Apply(core.ActionMoveLeft)
	assert.Equal(t, x-1, g.Engine().Current().X)
}

func TestOpponentGameOverMakesWinner(t *testing.T) {
	g, _ := startedGame(t)
	score := g.Engine().Score()

	g.HandleMessage(frame(t, MsgGameOver, nil))
	assert.True(t, g.IsWinner())
	assert.False(t, g.IsDraw())
	assert.True(t, g.OpponentGameOver())
	assert.True(t, g.Opponent().GameOver)
	assert.Equal(t, score, g.WinScore())
	assert.True(t, g.Engine().IsPaused(), "the win screen pauses play")
	assert.Equal(t, OutcomeWin, g.Outcome())

	// Keep playing so the live score moves past the frozen one.
	g.Apply(core.ActionConfirm)
	g.Apply(core.ActionHardDrop)
	require.Greater(t, g.Engine().Score(), score)

	// A duplicate delivery changes nothing.
	g.HandleMessage(frame(t, MsgGameOver, nil))
	assert.True(t, g.IsWinner())
	assert.False(t, g.IsDraw())
	assert.Equal(t, score, g.WinScore())
}

func TestWinnerContinuesAndStaysSilent(t *testing.T) {
	g, rec := startedGame(t)
	g.HandleMessage(frame(t, MsgGameOver, nil))

	g.TogglePause()
	assert.True(t, g.Engine().IsPaused(), "pause does not dismiss the win screen")

	g.Apply(core.ActionConfirm)
	assert.False(t, g.Engine().IsPaused())
	assert.True(t, g.CanMove())

	g.Engine().ForceGameOver()
	assert.Zero(t, rec.count(MsgGameOver), "a winner never reports its own top-out")
	assert.Equal(t, OutcomeWin, g.Outcome())
}

func TestSimultaneousTopOutIsDraw(t *testing.T) {
	g, rec := startedGame(t)

	g.Engine().ForceGameOver()
	assert.Equal(t, 1, rec.count(MsgGameOver))
	assert.Equal(t, OutcomeLose, g.Outcome())

	g.HandleMessage(frame(t, MsgGameOver, nil))
	assert.True(t, g.IsDraw())
	assert.False(t, g.IsWinner())
	assert.Equal(t, OutcomeDraw, g.Outcome())
}

func TestPlayerLeftEndsMatch(t *testing.T) {
	g, rec := startedGame(t)

	g.HandleMessage(frame(t, MsgPlayerLeft, nil))
	assert.False(t, g.OpponentConnected())
	assert.True(t, g.Engine().IsGameOver())
	assert.Zero(t, rec.count(MsgGameOver), "nobody is left to tell")
}

func TestPlayerLeftKeepsWinnerPlaying(t *testing.T) {
	g, _ := startedGame(t)
	g.HandleMessage(frame(t, MsgGameOver, nil))
	g.HandleMessage(frame(t, MsgPlayerLeft, nil))

	assert.False(t, g.Engine().IsGameOver())
	g.ContinueAfterWin()
	assert.True(t, g.CanMove())
}

func TestPlayerLeftCancelsCountdown(t *testing.T) {
	g, _ := newTestGame(t, 3)
	g.HandleMessage(frame(t, MsgGameStart, GameStart{OpponentID: "p2", MatchID: "m1"}))
	g.HandleMessage(frame(t, MsgPlayerLeft, nil))

	_, running := g.Countdown()
	assert.False(t, running)
	g.Update(5000)
	assert.NotEqual(t, PhasePlaying, g.Phase())
}

func TestMalformedFramesAreDropped(t *testing.T) {
	g, _ := startedGame(t)
	before := g.Engine().Board().Rows()

	g.HandleMessage([]byte("{not json"))
	g.HandleMessage([]byte(`{"type":"teleport","payload":{}}`))
	g.HandleMessage([]byte(`{"type":"attack","payload":{"lines":"four"}}`))
	g.HandleMessage([]byte(`{"type":"game_state","payload":{"grid":7}}`))

	assert.Equal(t, before, g.Engine().Board().Rows())
	assert.Nil(t, g.Opponent().Grid)
	assert.False(t, g.IsWinner())
}

func TestAttackRows(t *testing.T) {
	g, _ := newTestGame(t, 0)

	g.attackMode = AttackGarbage
	for lines, want := range map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 4} {
		assert.Equal(t, want, g.attackRows(lines), "garbage mode, %d lines", lines)
	}
	g.attackMode = AttackLines
	for lines, want := range map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 3} {
		assert.Equal(t, want, g.attackRows(lines), "lines mode, %d lines", lines)
	}
}

func TestTurnSendsStateAndAttack(t *testing.T) {
	g, rec := startedGame(t)
	states := rec.count(MsgGameState)

	g.onTurn(engine.TurnEvent{Lines: 1})
	assert.Equal(t, states+1, rec.count(MsgGameState))
	assert.Zero(t, rec.count(MsgAttack))

	g.onTurn(engine.TurnEvent{Lines: 4})
	env, ok := rec.last(MsgAttack)
	require.True(t, ok)
	var a Attack
	require.NoError(t, env.Into(&a))
	assert.Equal(t, 4, a.Lines)

	g.HandleMessage(frame(t, MsgGameOver, nil))
	g.onTurn(engine.TurnEvent{Lines: 4})
	assert.Equal(t, 1, rec.count(MsgAttack), "a finished opponent is not attacked")
}

func TestIncomingAttackAddsGarbage(t *testing.T) {
	g, rec := startedGame(t)
	states := rec.count(MsgGameState)

	g.HandleMessage(frame(t, MsgAttack, Attack{Lines: 2}))

	b := g.Engine().Board()
	for _, y := range []int{b.Height() - 1, b.Height() - 2} {
		filled := 0
		for x := 0; x < b.Width(); x++ {
			if b.Cell(x, y) == engine.CellGarbage {
				filled++
			}
		}
		assert.Equal(t, b.Width()-1, filled, "row %d has one hole", y)
	}
	assert.Equal(t, states+1, rec.count(MsgGameState))
}

func TestGameStateIsMirrored(t *testing.T) {
	g, _ := startedGame(t)
	grid := [][]int{{0, 1}, {8, 0}}

	g.HandleMessage(frame(t, MsgGameState, GameState{Grid: grid, Score: 300, Lines: 2}))
	grid[0][1] = 5

	view := g.Opponent()
	assert.Equal(t, 300, view.Score)
	assert.Equal(t, 2, view.Lines)
	assert.Equal(t, 1, view.Cell(1, 0))
	assert.Equal(t, 8, view.Cell(0, 1))
	assert.Equal(t, -1, view.Cell(5, 5))
}

func TestPauseIsShared(t *testing.T) {
	g, rec := startedGame(t)

	g.Apply(core.ActionPause)
	assert.True(t, g.Engine().IsPaused())
	assert.Equal(t, 1, rec.count(MsgPause))

	g.Apply(core.ActionPause)
	assert.False(t, g.Engine().IsPaused())
	assert.Equal(t, 1, rec.count(MsgResume))

	g.HandleMessage(frame(t, MsgPause, nil))
	assert.True(t, g.Engine().IsPaused())
	assert.True(t, g.Opponent().Paused)
	g.HandleMessage(frame(t, MsgResume, nil))
	assert.False(t, g.Engine().IsPaused())
}

func TestHostSettingsAreAdopted(t *testing.T) {
	g, _ := newTestGame(t, 0)
	require.Nil(t, g.Special())

	var cleared []engine.ClearEvent
	g.Observe(engine.Hooks{OnClear: func(ev engine.ClearEvent) { cleared = append(cleared, ev) }})

	g.HandleMessage(frame(t, MsgRoomStatus, RoomStatus{
		HasHost: true,
		HostSettings: &HostSettings{
			AttackMode:        AttackLines,
			ShowGhostPiece:    false,
			UseCascadeGravity: true,
		},
	}))
	assert.True(t, g.Room().HasHost)
	assert.Equal(t, AttackLines, g.AttackMode())
	assert.False(t, g.ShowGhost())
	require.NotNil(t, g.Special())
	assert.True(t, g.Engine().AllowHold())

	// Hooks registered before the rebuild still fire.
	g.HandleMessage(frame(t, MsgGameStart, GameStart{OpponentID: "p2", MatchID: "m1"}))
	b := g.Engine().Board()
	for x := 0; x < b.Width(); x++ {
		b.SetCell(x, b.Height()-1, engine.CellGarbage)
	}
	g.Engine().HardDrop()
	assert.NotEmpty(t, cleared)
}

func TestResetClearsOutcome(t *testing.T) {
	g, _ := startedGame(t)
	g.HandleMessage(frame(t, MsgGameOver, nil))
	require.True(t, g.IsWinner())

	g.Reset()
	assert.False(t, g.IsWinner())
	assert.False(t, g.OpponentGameOver())
	assert.Zero(t, g.WinScore())
	assert.Equal(t, OutcomeNone, g.Outcome())
	assert.Equal(t, "bob", g.Opponent().Name)

	g.Cleanup()
	assert.False(t, g.OpponentConnected())
	assert.Equal(t, PhaseIdle, g.Phase())
}

func TestMatchDurationCountsPlayTime(t *testing.T) {
	g, _ := startedGame(t)
	g.Update(1500)
	assert.InDelta(t, 1.5, g.MatchDuration().Seconds(), 1e-9)
}
