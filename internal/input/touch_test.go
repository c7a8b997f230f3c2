package input

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(x, y float64, ms int) TouchPoint {
	return TouchPoint{X: x, Y: y, At: t0.Add(time.Duration(ms) * time.Millisecond)}
}

func TestTapRotates(t *testing.T) {
	c := NewTouchClassifier(DefaultTouchConfig())
	c.Start(at(10, 10, 0))
	if got := c.End(at(10.5, 10, 120)); got != core.ActionRotate {
		t.Errorf("short tap = %v, want Rotate", got)
	}
	if c.Active() {
		t.Error("gesture still active after End")
	}
}

func TestLongPressSoftDrops(t *testing.T) {
	c := NewTouchClassifier(DefaultTouchConfig())
	c.Start(at(10, 10, 0))
	if got := c.End(at(10, 10, 350)); got != core.ActionSoftDrop {
		t.Errorf("long press = %v, want SoftDrop", got)
	}

	c.Start(at(10, 10, 0))
	if got := c.End(at(10, 10, 200)); got != core.ActionRotate {
		t.Errorf("press of exactly the threshold = %v, want Rotate", got)
	}
}

func TestDragRepeatsMoves(t *testing.T) {
	c := NewTouchClassifier(DefaultTouchConfig())
	c.Start(at(10, 10, 0))

	if got := c.Move(at(11.5, 10, 10)); got != core.ActionNone {
		t.Errorf("short drag = %v, want None", got)
	}
	if got := c.Move(at(12.5, 10, 20)); got != core.ActionMoveRight {
		t.Fatalf("drag past threshold = %v, want MoveRight", got)
	}
	// Anchor is now 12.5; another full threshold is needed.
	if got := c.Move(at(14, 10, 30)); got != core.ActionNone {
		t.Errorf("drag within new anchor = %v, want None", got)
	}
	if got := c.Move(at(15, 10, 40)); got != core.ActionMoveRight {
		t.Errorf("second drag step = %v, want MoveRight", got)
	}
	if got := c.Move(at(12, 10, 50)); got != core.ActionMoveLeft {
		t.Errorf("drag back = %v, want MoveLeft", got)
	}
	// A drag that moved never becomes a tap.
	if got := c.End(at(12, 10, 60)); got != core.ActionNone {
		t.Errorf("end after drag = %v, want None", got)
	}
}

func TestDragIgnoresMostlyVertical(t *testing.T) {
	c := NewTouchClassifier(DefaultTouchConfig())
	c.Start(at(10, 10, 0))
	if got := c.Move(at(13, 14, 10)); got != core.ActionNone {
		t.Errorf("diagonal drag = %v, want None", got)
	}
}

func TestSwipes(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   core.Action
	}{
		{"down", 0, 6, core.ActionHardDrop},
		{"up", 0.5, -5, core.ActionHold},
		{"right", 5, 0, core.ActionMoveRight},
		{"left", -4, 1, core.ActionMoveLeft},
		{"diagonal prefers horizontal", 4, 5, core.ActionMoveRight},
		{"steep diagonal is vertical", 2, 5, core.ActionHardDrop},
		{"short sideways", 2, 0, core.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewTouchClassifier(DefaultTouchConfig())
			c.Start(at(20, 10, 0))
			if got := c.End(at(20+tt.dx, 10+tt.dy, 90)); got != tt.want {
				t.Errorf("swipe (%v,%v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestEndWithoutStart(t *testing.T) {
	c := NewTouchClassifier(DefaultTouchConfig())
	if got := c.End(at(0, 0, 0)); got != core.ActionNone {
		t.Errorf("End without Start = %v, want None", got)
	}
	if got := c.Move(at(9, 0, 0)); got != core.ActionNone {
		t.Errorf("Move without Start = %v, want None", got)
	}

	c.Start(at(0, 0, 0))
	c.Cancel()
	if got := c.End(at(0, 9, 10)); got != core.ActionNone {
		t.Errorf("End after Cancel = %v, want None", got)
	}
}
