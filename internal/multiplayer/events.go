package multiplayer

import "github.com/vovakirdan/tui-blocks/internal/online"

// CoordinatorMessage is something a session asks the coordinator to do.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// ConnectMsg announces a new session. The coordinator answers with room_status.
type ConnectMsg struct {
	SessionID SessionID
}

func (ConnectMsg) coordinatorMessage() {}

// FrameMsg carries one decoded client frame.
type FrameMsg struct {
	SessionID SessionID
	Frame     online.Envelope
}

func (FrameMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's socket closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // someone topped out first
	MatchEndReasonDisconnect                       // a player left mid-match
	MatchEndReasonShutdown                         // the relay stopped
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "completed"
	case MatchEndReasonDisconnect:
		return "disconnect"
	case MatchEndReasonShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
