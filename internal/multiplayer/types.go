// Package multiplayer pairs WebSocket sessions into versus matches and relays
// their frames. Each client stays authoritative for its own board; the relay
// only routes messages and keeps enough bookkeeping to record a result.
package multiplayer

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-blocks/internal/online"
)

// SessionID uniquely identifies a connected client.
type SessionID string

// MatchID uniquely identifies a match.
type MatchID string

// NewSessionID returns a fresh random session id.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// NewMatchID returns a fresh random match id.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// DefaultSettings are used when a host joins without choosing any.
func DefaultSettings() online.HostSettings {
	return online.HostSettings{
		AttackMode:        online.AttackGarbage,
		ShowGhostPiece:    true,
		UseCascadeGravity: false,
	}
}

// MatchInfo is a read-only view of a running match.
type MatchInfo struct {
	ID        MatchID             `json:"id"`
	Host      string              `json:"host"`
	Guest     string              `json:"guest"`
	Settings  online.HostSettings `json:"settings"`
	StartedAt time.Time           `json:"startedAt"`
	Score1    int                 `json:"score1"`
	Score2    int                 `json:"score2"`
}

// MatchResultSaver persists finished matches. The coordinator calls it from
// its own goroutine and ignores failures beyond logging them.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persisted outcome of one match.
type MatchResultData struct {
	MatchID      string
	HostName     string
	GuestName    string
	HostScore    int
	GuestScore   int
	Winner       string // player name, empty when undecided
	EndReason    string
	AttackMode   string
	DurationSecs int
}
