package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/input"
)

// pointer feeds left-button mouse drags through the touch gesture classifier.
type pointer struct {
	touch *input.TouchClassifier
	now   func() time.Time
}

func newPointer(cfg input.TouchConfig) *pointer {
	return &pointer{touch: input.NewTouchClassifier(cfg), now: time.Now}
}

// action returns the game action a mouse event completes, if any.
func (p *pointer) action(msg tea.MouseMsg) core.Action {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return core.ActionNone
	}
	pt := input.TouchPoint{X: float64(msg.X), Y: float64(msg.Y), At: p.now()}
	switch msg.Action {
	case tea.MouseActionPress:
		p.touch.Start(pt)
	case tea.MouseActionMotion:
		return p.touch.Move(pt)
	case tea.MouseActionRelease:
		return p.touch.End(pt)
	}
	return core.ActionNone
}
