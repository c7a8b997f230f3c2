// Package blocks adapts the falling-block engine to the game registry:
// registration, per-tick input handling, effects and rendering.
package blocks

import (
	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

// Mode selects the single-player rule set.
type Mode string

const (
	ModeClassic Mode = "blocks"
	ModeCascade Mode = "cascade"
)

func init() {
	registry.Register(string(ModeClassic), func() registry.Game { return New(ModeClassic) })
	registry.Register(string(ModeCascade), func() registry.Game { return New(ModeCascade) })
	registry.Register(DuoID, func() registry.Game { return NewDuo() })
}

// Game is a single-player blocks game, classic or cascade.
type Game struct {
	mode   Mode
	cfg    config.BlocksConfig
	seed   int64
	tickMs float64

	eng     *engine.Game
	special *engine.SpecialGame
	effects *engine.EffectSystem

	chainShown int     // last chain reached, for the banner
	chainTimer float64 // ms left to show it
}

// New creates a game in the given mode. It is playable after Reset.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeCascade {
		return "Blocks: Cascade"
	}
	return "Blocks"
}

// Reset builds a fresh engine from the current config.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = CurrentConfig()
	g.seed = rc.Seed
	g.tickMs = rc.TickDelta()
	g.chainShown = 0
	g.chainTimer = 0

	opts := EngineOptions(g.cfg.Rules, g.seed)
	if g.mode == ModeCascade {
		g.special = engine.NewSpecialGame(opts, float64(g.cfg.Rules.CascadeStepMs))
		g.eng = g.special.Game
	} else {
		g.special = nil
		g.eng = engine.NewGame(opts)
	}

	g.effects = engine.NewEffectSystem(engine.ParseEffectType(g.cfg.Effects.Type), g.seed)
	g.eng.Observe(g.effects.Hooks(g.eng.Board().Width()))
	g.eng.Observe(engine.Hooks{OnClear: g.onClear})
}

func (g *Game) onClear(ev engine.ClearEvent) {
	if ev.Chain > 1 {
		g.chainShown = ev.Chain
		g.chainTimer = 1500
	}
}

// Step applies this tick's actions in order, then advances time.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, a := range in.Actions {
		g.apply(a)
	}
	g.eng.Update(g.tickMs)
	g.effects.Update(g.tickMs)
	if g.chainTimer > 0 {
		g.chainTimer -= g.tickMs
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) apply(a core.Action) {
	switch a {
	case core.ActionPause:
		g.eng.TogglePause()
	case core.ActionRestart:
		if g.eng.IsGameOver() {
			g.seed++
			g.eng.Reset(g.seed)
			g.effects.Clear()
			g.chainTimer = 0
		}
	default:
		applyMove(g.eng, a)
	}
}

// applyMove routes a movement action to an engine. The engine ignores
// moves while paused, resolving or over.
func applyMove(e *engine.Game, a core.Action) {
	switch a {
	case core.ActionMoveLeft:
		e.MoveLeft()
	case core.ActionMoveRight:
		e.MoveRight()
	case core.ActionSoftDrop:
		e.MoveDown()
	case core.ActionHardDrop:
		e.HardDrop()
	case core.ActionRotate:
		e.Rotate()
	case core.ActionRotateCCW:
		e.RotateCounterClockwise()
	case core.ActionHold:
		e.Hold()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.eng.Score(),
		Lines:    g.eng.Lines(),
		Level:    g.eng.Level(),
		GameOver: g.eng.IsGameOver(),
		Paused:   g.eng.IsPaused(),
	}
}

// Serialize snapshots the engine for a later resume.
func (g *Game) Serialize() ([]byte, error) {
	return g.eng.Serialize()
}

// Restore loads a snapshot produced by Serialize into the current engine.
func (g *Game) Restore(data []byte) error {
	if err := g.eng.Deserialize(data); err != nil {
		return err
	}
	g.effects.Clear()
	g.chainTimer = 0
	return nil
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *engine.Game {
	return g.eng
}

var (
	_ registry.Game      = (*Game)(nil)
	_ registry.Resumable = (*Game)(nil)
)
