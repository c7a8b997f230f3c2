package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/input"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

// GameOptions configures a local game session.
type GameOptions struct {
	Store  *storage.Store // may be nil; nothing is persisted then
	Logger *log.Logger
	Touch  input.TouchConfig
	Resume bool // restore the saved game, if any
}

// GameModel runs one local game, solo or duo, at a fixed tick rate.
type GameModel struct {
	game    registry.Game
	multi   registry.MultiGame // nil for solo games
	screen  *core.Screen
	store   *storage.Store
	logger  *log.Logger
	config  core.RuntimeConfig
	keys    GameKeyMap
	help    help.Model
	pointer *pointer
	input   core.MultiInputFrame
	state   core.GameState
	status  string
	loop    uint64

	recorded   bool // result stored for the current game over
	exitOnBack bool // no menu to return to
	quitting   bool
	backToMenu bool
}

// NewGameModel resets game and, when asked, restores its saved state.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := GameModel{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:   opts.Store,
		logger:  logger,
		config:  cfg,
		keys:    SoloKeyMap(),
		help:    help.New(),
		pointer: newPointer(opts.Touch),
		input:   core.NewMultiInputFrame(),
		loop:    newLoopID(),
	}
	if mg, ok := game.(registry.MultiGame); ok {
		m.multi = mg
		m.keys = DuoKeyMap()
	}

	game.Reset(cfg)
	if opts.Resume {
		m.restore()
	}
	m.state = game.State()
	return m
}

func (m *GameModel) restore() {
	r, ok := m.game.(registry.Resumable)
	if !ok || m.store == nil {
		return
	}
	data, err := m.store.LoadSnapshot(m.game.ID())
	if err != nil {
		m.logger.Warn("cannot load saved game", "game", m.game.ID(), "error", err)
		return
	}
	if data == nil {
		m.status = "No saved game, starting fresh"
		return
	}
	if err := r.Restore(data); err != nil {
		m.logger.Warn("saved game is unreadable", "game", m.game.ID(), "error", err)
		m.status = "Saved game unreadable, starting fresh"
		m.game.Reset(m.config)
		return
	}
	m.status = "Resumed saved game"
	m.logger.Info("resumed saved game", "game", m.game.ID())
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.multi == nil {
			m.input.Add(core.Player1, m.pointer.action(msg))
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if key.Matches(msg, m.keys.Back) && (m.state.GameOver || m.state.Paused) {
		m.saveProgress()
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}

	ev := keyEvent(msg)
	if m.multi != nil {
		id, a := input.MapDuo(ev)
		if id == 0 {
			id = core.Player1
		}
		m.input.Add(id, a)
		return m, nil
	}

	a := input.MapSingle(ev)
	if a == core.ActionQuit {
		return m.quit()
	}
	m.input.Add(core.Player1, a)
	return m, nil
}

func (m GameModel) quit() (tea.Model, tea.Cmd) {
	m.saveProgress()
	m.quitting = true
	return m, tea.Quit
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	var res core.StepResult
	if m.multi != nil {
		res = m.multi.StepMulti(m.input)
	} else {
		res = m.game.Step(m.input.Player(core.Player1))
	}
	m.input.Clear()

	if m.state.GameOver && !res.State.GameOver {
		m.recorded = false
		m.status = ""
	}
	m.state = res.State
	m.recordResult()

	return m, tickCmd(m.config.TickRate, m.loop)
}

// recordResult stores a finished game once: the score for solo games, the
// win tally for duo.
func (m *GameModel) recordResult() {
	if !m.state.GameOver || m.recorded {
		return
	}
	m.recorded = true
	if m.store == nil {
		return
	}

	if m.multi != nil {
		stats, err := m.store.RecordDuoWin(m.multi.Winner())
		if err != nil {
			m.logger.Error("cannot record duo result", "error", err)
			return
		}
		m.status = fmt.Sprintf("Tally P1 %d : %d P2", stats.P1Wins, stats.P2Wins)
		return
	}

	if _, ok := m.game.(registry.Resumable); ok {
		if err := m.store.DeleteSnapshot(m.game.ID()); err != nil {
			m.logger.Warn("cannot drop saved game", "game", m.game.ID(), "error", err)
		}
	}
	if m.state.Score <= 0 {
		return
	}
	entry := storage.ScoreEntry{
		GameID: m.game.ID(),
		Score:  m.state.Score,
		Lines:  m.state.Lines,
		Level:  m.state.Level,
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.logger.Error("cannot save score", "game", m.game.ID(), "error", err)
		return
	}
	if best, err := m.store.HighScore(m.game.ID()); err == nil && best == m.state.Score {
		m.status = "New high score!"
	}
}

// saveProgress stores an unfinished solo game so it can be resumed.
func (m *GameModel) saveProgress() {
	r, ok := m.game.(registry.Resumable)
	if !ok || m.store == nil || m.state.GameOver {
		return
	}
	data, err := r.Serialize()
	if err != nil {
		m.logger.Error("cannot serialize game", "game", m.game.ID(), "error", err)
		return
	}
	if err := m.store.SaveSnapshot(m.game.ID(), data); err != nil {
		m.logger.Error("cannot save game", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Info("saved game", "game", m.game.ID(), "bytes", len(data))
}

// saveScreenshot writes the current frame as plain text under ~/.blocks/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("no home directory for screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".blocks", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot write screenshot", "error", err)
		return
	}
	m.status = "Saved " + name
}

// View renders the game and the help footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status + "  " + footer
	}
	return withFooter(m.screen, footer)
}

// State returns the last stepped game state.
func (m GameModel) State() core.GameState {
	return m.state
}

// IsQuitting reports whether the player asked to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the player quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	m := NewGameModel(game, cfg, opts)
	m.exitOnBack = true
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
