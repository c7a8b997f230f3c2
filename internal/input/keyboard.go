// Package input turns raw device events into abstract game actions.
// It never mutates game state.
package input

import "github.com/vovakirdan/tui-blocks/internal/core"

// KeyEvent is a key press identified by its physical key code
// ("ArrowLeft", "KeyA", "Space", "Digit0", ...), independent of layout.
type KeyEvent struct {
	Code  string
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

// Layout maps key codes to actions.
type Layout map[string]core.Action

// SingleLayout is the one-player layout: arrows and WASD both work.
var SingleLayout = Layout{
	"ArrowLeft":  core.ActionMoveLeft,
	"KeyA":       core.ActionMoveLeft,
	"ArrowRight": core.ActionMoveRight,
	"KeyD":       core.ActionMoveRight,
	"ArrowDown":  core.ActionSoftDrop,
	"KeyS":       core.ActionSoftDrop,
	"ArrowUp":    core.ActionRotate,
	"KeyW":       core.ActionRotate,
	"KeyX":       core.ActionRotate,
	"KeyZ":       core.ActionRotateCCW,
	"Space":      core.ActionHardDrop,
	"KeyC":       core.ActionHold,
	"ShiftLeft":  core.ActionHold,
	"ShiftRight": core.ActionHold,
	"KeyP":       core.ActionPause,
	"Escape":     core.ActionPause,
	"KeyR":       core.ActionRestart,
	"Enter":      core.ActionConfirm,
	"KeyQ":       core.ActionQuit,
}

// duoPlayer1 uses the left side of the keyboard.
var duoPlayer1 = Layout{
	"KeyA": core.ActionMoveLeft,
	"KeyD": core.ActionMoveRight,
	"KeyS": core.ActionSoftDrop,
	"KeyW": core.ActionRotate,
	"KeyQ": core.ActionRotateCCW,
	"KeyE": core.ActionHold,
	"Tab":  core.ActionHardDrop,
}

// duoPlayer2 uses the arrows plus the numpad, with punctuation fallbacks
// for keyboards without one.
var duoPlayer2 = Layout{
	"ArrowLeft":     core.ActionMoveLeft,
	"ArrowRight":    core.ActionMoveRight,
	"ArrowDown":     core.ActionSoftDrop,
	"ArrowUp":       core.ActionRotate,
	"Numpad1":       core.ActionRotateCCW,
	"Comma":         core.ActionRotateCCW,
	"Numpad2":       core.ActionHold,
	"Period":        core.ActionHold,
	"Numpad0":       core.ActionHardDrop,
	"Digit0":        core.ActionHardDrop,
	"NumpadDecimal": core.ActionHold,
}

// duoShared holds keys that act on the whole match.
var duoShared = Layout{
	"KeyP":   core.ActionPause,
	"Escape": core.ActionPause,
	"KeyR":   core.ActionRestart,
	"Enter":  core.ActionConfirm,
}

// Map returns the action bound to ev in layout. Events carrying Ctrl, Alt
// or Meta never map, so browser and terminal shortcuts pass through.
func Map(ev KeyEvent, layout Layout) core.Action {
	if ev.Ctrl || ev.Alt || ev.Meta {
		return core.ActionNone
	}
	return layout[ev.Code]
}

// MapSingle maps ev with SingleLayout.
func MapSingle(ev KeyEvent) core.Action {
	return Map(ev, SingleLayout)
}

// MapDuo maps ev with the two-player layout. The player is 0 for keys
// that affect the whole match and for unbound keys.
func MapDuo(ev KeyEvent) (core.PlayerID, core.Action) {
	if a := Map(ev, duoPlayer1); a != core.ActionNone {
		return core.Player1, a
	}
	if a := Map(ev, duoPlayer2); a != core.ActionNone {
		return core.Player2, a
	}
	return 0, Map(ev, duoShared)
}
