package input

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

// TouchConfig holds the gesture thresholds.
type TouchConfig struct {
	MoveThreshold  float64       // drag distance per repeated move
	TapThreshold   float64       // max wobble for a tap, per axis
	SwipeThreshold float64       // min horizontal distance for a swipe
	VerticalRatio  float64       // |dy| must exceed |dx| times this to count as vertical
	LongPress      time.Duration // taps held longer soft-drop instead of rotating
}

// DefaultTouchConfig returns thresholds tuned for terminal cells.
func DefaultTouchConfig() TouchConfig {
	return TouchConfig{
		MoveThreshold:  2,
		TapThreshold:   1,
		SwipeThreshold: 3,
		VerticalRatio:  1.5,
		LongPress:      200 * time.Millisecond,
	}
}

// TouchPoint is one sample of a touch or pointer drag.
type TouchPoint struct {
	X, Y float64
	At   time.Time
}

// TouchClassifier recognizes taps, drags and swipes.
//
// A drag emits a horizontal move each time it travels MoveThreshold from
// the anchor and then re-anchors, so holding a drag repeats moves. Vertical
// swipes need a clear majority over horizontal travel to avoid accidental
// drops during diagonal drags.
type TouchClassifier struct {
	cfg     TouchConfig
	active  bool
	moved   bool
	started time.Time
	anchor  TouchPoint
}

// NewTouchClassifier creates a classifier.
func NewTouchClassifier(cfg TouchConfig) *TouchClassifier {
	return &TouchClassifier{cfg: cfg}
}

// Start begins a gesture at p.
func (c *TouchClassifier) Start(p TouchPoint) {
	c.active = true
	c.moved = false
	c.started = p.At
	c.anchor = p
}

// Move reports a drag sample and returns a move action when the drag has
// travelled far enough sideways.
func (c *TouchClassifier) Move(p TouchPoint) core.Action {
	if !c.active {
		return core.ActionNone
	}
	dx := p.X - c.anchor.X
	dy := p.Y - c.anchor.Y
	if math.Abs(dx) <= c.cfg.MoveThreshold || math.Abs(dx) <= math.Abs(dy) {
		return core.ActionNone
	}
	c.anchor = p
	c.moved = true
	if dx < 0 {
		return core.ActionMoveLeft
	}
	return core.ActionMoveRight
}

// End finishes the gesture at p and classifies it.
func (c *TouchClassifier) End(p TouchPoint) core.Action {
	if !c.active {
		return core.ActionNone
	}
	c.active = false

	dx := p.X - c.anchor.X
	dy := p.Y - c.anchor.Y
	adx, ady := math.Abs(dx), math.Abs(dy)

	if !c.moved && adx <= c.cfg.TapThreshold && ady <= c.cfg.TapThreshold {
		if p.At.Sub(c.started) > c.cfg.LongPress {
			return core.ActionSoftDrop
		}
		return core.ActionRotate
	}

	if ady > adx*c.cfg.VerticalRatio && ady > c.cfg.TapThreshold {
		if dy > 0 {
			return core.ActionHardDrop
		}
		return core.ActionHold
	}
	if adx > c.cfg.SwipeThreshold {
		if dx < 0 {
			return core.ActionMoveLeft
		}
		return core.ActionMoveRight
	}
	return core.ActionNone
}

// Cancel abandons the current gesture.
func (c *TouchClassifier) Cancel() {
	c.active = false
	c.moved = false
}

// Active reports whether a gesture is in progress.
func (c *TouchClassifier) Active() bool {
	return c.active
}
