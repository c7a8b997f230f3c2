// Package tui runs the blocks games in a terminal with Bubble Tea: local
// solo and duo play, the online client, score tables and the SSH front door.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step of the loop identified by Loop.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loopSeq atomic.Uint64

// newLoopID returns an id for a fresh tick loop. Ticks still in flight for
// an abandoned loop carry the old id and are dropped.
func newLoopID() uint64 {
	return loopSeq.Add(1)
}

// tickCmd schedules the next tick of loop at tickRate per second.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}
