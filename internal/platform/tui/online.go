package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/input"
	"github.com/vovakirdan/tui-blocks/internal/online"
)

// frameMsg carries one raw frame from the relay.
type frameMsg []byte

// disconnectedMsg reports that the relay connection is gone.
type disconnectedMsg struct{ err error }

// OnlineOptions configures an online session.
type OnlineOptions struct {
	Game     online.Options
	Server   string // shown while waiting
	Logger   *log.Logger
	Touch    input.TouchConfig
	Effects  engine.EffectType
	TickRate int
}

// OnlineModel plays a versus match against a peer through the relay.
type OnlineModel struct {
	client  *online.Client
	game    *online.Game
	effects *engine.EffectSystem
	screen  *core.Screen
	logger  *log.Logger
	server  string
	keys    GameKeyMap
	help    help.Model
	pointer *pointer
	input   core.InputFrame

	tickRate int
	tickMs   float64
	loop     uint64

	disconnected bool
	err          error
	quitting     bool
}

// NewOnlineModel wraps a connected client and asks the relay for a match.
func NewOnlineModel(client *online.Client, width, height int, opts OnlineOptions) OnlineModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rc := core.RuntimeConfig{TickRate: opts.TickRate}

	game := online.NewGame(opts.Game, client, logger)
	fx := engine.NewEffectSystem(opts.Effects, opts.Game.Engine.Seed)
	game.Observe(fx.Hooks(game.Engine().Board().Width()))
	game.Join()

	return OnlineModel{
		client:   client,
		game:     game,
		effects:  fx,
		screen:   core.NewScreen(width, max(height-1, 1)),
		logger:   logger,
		server:   opts.Server,
		keys:     SoloKeyMap(),
		help:     help.New(),
		pointer:  newPointer(opts.Touch),
		tickRate: rc.TickRate,
		tickMs:   rc.TickDelta(),
		loop:     newLoopID(),
	}
}

// Init starts the tick loop and the frame reader.
func (m OnlineModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickRate, m.loop), m.waitFrame())
}

// waitFrame blocks until the next frame or the end of the connection.
func (m OnlineModel) waitFrame() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		data, ok := <-c.Messages()
		if !ok {
			return disconnectedMsg{err: c.Err()}
		}
		return frameMsg(data)
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.game.HandleMessage(msg)
		return m, m.waitFrame()
	case disconnectedMsg:
		m.disconnected = true
		m.err = msg.err
		m.game.Cleanup()
		if msg.err != nil {
			m.logger.Warn("relay connection closed", "error", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.input.Set(m.pointer.action(msg))
		return m, nil
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		for _, a := range m.input.Actions {
			m.game.Apply(a)
		}
		m.input.Clear()
		m.game.Update(m.tickMs)
		m.effects.Update(m.tickMs)
		return m, tickCmd(m.tickRate, m.loop)
	}
	return m, nil
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch a := input.MapSingle(keyEvent(msg)); a {
	case core.ActionQuit:
		return m.quit()
	case core.ActionRestart:
		if m.canRematch() {
			m.game.Reset()
			m.effects.Clear()
			m.game.Join()
		}
	default:
		m.input.Set(a)
	}
	return m, nil
}

// canRematch reports whether both sides are done so a new match can be queued.
func (m OnlineModel) canRematch() bool {
	if m.disconnected {
		return false
	}
	over := m.game.Engine().IsGameOver()
	return over && (m.game.OpponentGameOver() || !m.game.OpponentConnected())
}

func (m OnlineModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.game.Cleanup()
	if err := m.client.Close(); err != nil {
		m.logger.Debug("closing relay connection", "error", err)
	}
	return m, tea.Quit
}

// View renders both boards and the match status.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	m.render(m.screen)
	return withFooter(m.screen, m.help.View(m.keys))
}

func (m OnlineModel) render(dst *core.Screen) {
	dst.Clear()
	g := m.game
	eng := g.Engine()
	b := eng.Board()

	soloW, soloH := blocks.SoloSize(b.Width(), b.Height())
	fieldW, fieldH := blocks.FieldSize(b.Width(), b.Height())
	needW := soloW + fieldW + 2
	if dst.Width() < needW || dst.Height() < soloH {
		blocks.DrawOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", needW, soloH))
		return
	}

	ox := (dst.Width() - needW) / 2
	dst.DrawText(ox, 0, "You")
	blocks.DrawPlayfield(dst, ox, 1, blocks.PlayfieldOf(eng, m.effects, g.ShowGhost()))
	px := ox + fieldW + 1
	y := blocks.DrawStats(dst, px, 2, eng)
	blocks.DrawPiecePreview(dst, px, y+1, "Next", eng.Next(), false)
	if eng.AllowHold() {
		blocks.DrawPiecePreview(dst, px, y+5, "Hold", eng.Held(), eng.HoldUsed())
	}
	dst.DrawTextColor(px, y+9, "Mode "+g.AttackMode(), core.ColorGray)
	if g.Phase() == online.PhasePlaying {
		dst.DrawTextColor(px, y+10, formatClock(g.MatchDuration()), core.ColorGray)
	}

	opp := g.Opponent()
	qx := ox + soloW + 2
	name := opp.Name
	if name == "" {
		name = "Opponent"
	}
	if !g.OpponentConnected() && g.OpponentID() != "" {
		name += " (left)"
	}
	dst.DrawText(qx, 0, fmt.Sprintf("%s  %d", name, opp.Score))
	blocks.DrawPlayfield(dst, qx, 1, blocks.Playfield{Width: b.Width(), Height: b.Height(), Cell: opp.Cell})
	oppArea := core.NewRect(qx, 1, fieldW, fieldH)
	switch {
	case opp.GameOver:
		blocks.DrawOverlayAt(dst, oppArea, "Topped out", fmt.Sprintf("%d lines", opp.Lines))
	case opp.Paused:
		blocks.DrawOverlayAt(dst, oppArea, "Paused", "")
	}

	area := core.NewRect(ox, 1, fieldW, fieldH)
	line1, line2 := m.status()
	if line1 != "" {
		blocks.DrawOverlayAt(dst, area, line1, line2)
	}
}

// status returns the overlay for the local board, if any.
func (m OnlineModel) status() (string, string) {
	g := m.game
	eng := g.Engine()
	if m.disconnected {
		return "Disconnected", "Q quit"
	}
	if n, ok := g.Countdown(); ok {
		return fmt.Sprintf("%d", n), "Get ready"
	}
	switch g.Phase() {
	case online.PhaseIdle:
		return "Connecting", m.server
	case online.PhaseWaiting:
		return "Waiting for opponent", m.server
	}

	switch out := g.Outcome(); out {
	case online.OutcomeWin:
		if eng.IsPaused() {
			return out.String(), fmt.Sprintf("%d  Enter keep playing", g.WinScore())
		}
	case online.OutcomeDraw, online.OutcomeLose:
		if m.canRematch() {
			return out.String(), "R rematch  Q quit"
		}
		return out.String(), "Waiting for opponent"
	}
	if eng.IsGameOver() {
		return "Game Over", "R rematch  Q quit"
	}
	if !g.OpponentConnected() && !g.IsWinner() {
		return "Opponent left", "Q quit"
	}
	if eng.IsPaused() {
		return "Paused", "P resume"
	}
	return "", ""
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// RunOnline plays online until the player quits. The client is closed on return.
func RunOnline(client *online.Client, width, height int, opts OnlineOptions) error {
	defer client.Close()
	p := tea.NewProgram(
		NewOnlineModel(client, width, height, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
