package blocks

import (
	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

// DuoID is the registry id of the local two-player game.
const DuoID = "duo"

// Duo is the local two-player versus game.
type Duo struct {
	cfg    config.BlocksConfig
	seed   int64
	tickMs float64

	duo     *engine.DuoGame
	effects [2]*engine.EffectSystem
}

// NewDuo creates a duo game. It is playable after Reset.
func NewDuo() *Duo {
	return &Duo{}
}

// ID returns the game identifier.
func (d *Duo) ID() string { return DuoID }

// Title returns the display name.
func (d *Duo) Title() string { return "Blocks: Duo" }

// Reset starts a new match from the current config.
func (d *Duo) Reset(rc core.RuntimeConfig) {
	d.cfg = CurrentConfig()
	d.seed = rc.Seed
	d.tickMs = rc.TickDelta()

	d.duo = engine.NewDuoGame(EngineOptions(d.cfg.Rules, d.seed), GarbageTable(d.cfg.Duo))
	kind := engine.ParseEffectType(d.cfg.Effects.Type)
	for i := range d.effects {
		p := d.duo.Player(i + 1)
		d.effects[i] = engine.NewEffectSystem(kind, d.seed+int64(i))
		p.Observe(d.effects[i].Hooks(p.Board().Width()))
	}
}

// Step drives player 1 only; the platform normally calls StepMulti.
func (d *Duo) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.ByPlayer[core.Player1] = in
	return d.StepMulti(multi)
}

// StepMulti applies both players' actions, then advances time.
func (d *Duo) StepMulti(in core.MultiInputFrame) core.StepResult {
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		for _, a := range in.Player(id).Actions {
			d.apply(int(id), a)
		}
	}
	d.duo.Update(d.tickMs)
	for _, fx := range d.effects {
		fx.Update(d.tickMs)
	}
	return core.StepResult{State: d.State()}
}

func (d *Duo) apply(id int, a core.Action) {
	switch a {
	case core.ActionPause:
		d.duo.TogglePause()
	case core.ActionRestart:
		if d.duo.Winner() != 0 {
			d.seed++
			d.duo.Reset(d.seed)
			for _, fx := range d.effects {
				fx.Clear()
			}
		}
	case core.ActionHardDrop:
		d.duo.HardDrop(id)
	default:
		d.duo.Act(id, func(g *engine.Game) { applyMove(g, a) })
	}
}

// Winner returns 1 or 2 once decided, else 0.
func (d *Duo) Winner() int {
	return d.duo.Winner()
}

// State reports player 1's numbers; the match is over once a winner exists.
func (d *Duo) State() core.GameState {
	p1 := d.duo.Player(1)
	return core.GameState{
		Score:    p1.Score(),
		Lines:    p1.Lines(),
		Level:    p1.Level(),
		GameOver: d.duo.Winner() != 0,
		Paused:   d.duo.IsPaused(),
	}
}

// Match exposes the underlying duo engine.
func (d *Duo) Match() *engine.DuoGame {
	return d.duo
}

var _ registry.MultiGame = (*Duo)(nil)
