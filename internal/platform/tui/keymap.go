package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blocks/internal/input"
)

// namedKeys maps Bubble Tea key names to physical key codes.
var namedKeys = map[string]string{
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	" ":         "Space",
	"space":     "Space",
	"enter":     "Enter",
	"esc":       "Escape",
	"tab":       "Tab",
	"backspace": "Backspace",
	",":         "Comma",
	".":         "Period",
	"/":         "Slash",
	";":         "Semicolon",
}

// keyEvent converts a terminal key message into a layout-independent event.
// Terminals report characters, not keys, so an upper-case letter is read as
// the letter key with Shift held.
func keyEvent(msg tea.KeyMsg) input.KeyEvent {
	name := msg.String()
	ev := input.KeyEvent{Alt: msg.Alt}

	name = strings.TrimPrefix(name, "alt+")
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		ev.Ctrl = true
		name = rest
	}
	if rest, ok := strings.CutPrefix(name, "shift+"); ok {
		ev.Shift = true
		name = rest
	}

	if code, ok := namedKeys[name]; ok {
		ev.Code = code
		return ev
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return ev
	}
	r := runes[0]
	switch {
	case r >= '0' && r <= '9':
		ev.Code = "Digit" + string(r)
	case unicode.IsLetter(r) && r < unicode.MaxASCII:
		if unicode.IsUpper(r) {
			ev.Shift = true
		}
		ev.Code = "Key" + string(unicode.ToUpper(r))
	}
	return ev
}

// GameKeyMap holds the bindings shown in the in-game help footer. Game
// actions themselves go through the input layouts.
type GameKeyMap struct {
	Move     key.Binding
	Rotate   key.Binding
	Drop     key.Binding
	Hold     key.Binding
	Pause    key.Binding
	Restart  key.Binding
	Back     key.Binding
	Quit     key.Binding
	Snapshot key.Binding
}

// ShortHelp returns the bindings for the one-line footer.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Rotate, k.Drop, k.Hold, k.Pause, k.Back, k.Quit}
}

// FullHelp returns all bindings grouped by column.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Rotate, k.Drop, k.Hold},
		{k.Pause, k.Restart, k.Back, k.Quit, k.Snapshot},
	}
}

// SoloKeyMap describes the single-player controls.
func SoloKeyMap() GameKeyMap {
	return GameKeyMap{
		Move:     key.NewBinding(key.WithKeys("left", "right", "a", "d"), key.WithHelp("←/→", "move")),
		Rotate:   key.NewBinding(key.WithKeys("up", "x", "z"), key.WithHelp("↑/z", "rotate")),
		Drop:     key.NewBinding(key.WithKeys(" ", "down"), key.WithHelp("space/↓", "drop")),
		Hold:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hold")),
		Pause:    key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Snapshot: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot")),
	}
}

// DuoKeyMap describes the shared-keyboard controls. Q is player 1's
// counter-rotate there, so quitting needs ctrl+c.
func DuoKeyMap() GameKeyMap {
	k := SoloKeyMap()
	k.Move = key.NewBinding(key.WithKeys("a", "d", "left", "right"), key.WithHelp("a/d ←/→", "move"))
	k.Rotate = key.NewBinding(key.WithKeys("w", "up"), key.WithHelp("w ↑", "rotate"))
	k.Drop = key.NewBinding(key.WithKeys("tab", "0"), key.WithHelp("tab 0", "drop"))
	k.Hold = key.NewBinding(key.WithKeys("e", "."), key.WithHelp("e .", "hold"))
	k.Quit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	return k
}

// MenuAction is a navigation intent in list screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// menuAction translates a key for list navigation.
func menuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
