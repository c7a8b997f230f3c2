package multiplayer

import (
	"time"

	"github.com/vovakirdan/tui-blocks/internal/online"
)

// player is one side of a match as seen by the relay.
type player struct {
	session   SessionHandle
	name      string
	score     int
	lines     int
	toppedOut bool
}

// Match is a paired host and guest. The relay never simulates the game; it
// only tracks the last reported scores and who topped out first.
type Match struct {
	id        MatchID
	host      *player
	guest     *player
	settings  online.HostSettings
	startedAt time.Time
	firstOut  *player
}

func newMatch(id MatchID, host, guest *player, settings online.HostSettings, now time.Time) *Match {
	return &Match{
		id:        id,
		host:      host,
		guest:     guest,
		settings:  settings,
		startedAt: now,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// sides returns the player owning id and its opponent, or nils.
func (m *Match) sides(id SessionID) (self, other *player) {
	switch id {
	case m.host.session.ID():
		return m.host, m.guest
	case m.guest.session.ID():
		return m.guest, m.host
	default:
		return nil, nil
	}
}

func (m *Match) recordState(p *player, s online.GameState) {
	p.score = s.Score
	p.lines = s.Lines
}

// recordGameOver marks p as topped out and reports whether both are now out.
func (m *Match) recordGameOver(p *player) bool {
	if p.toppedOut {
		return false
	}
	p.toppedOut = true
	if m.firstOut == nil {
		m.firstOut = p
	}
	return m.host.toppedOut && m.guest.toppedOut
}

// result builds the persisted outcome. The first player to top out loses;
// failing that, a player who left loses.
func (m *Match) result(reason MatchEndReason, leaver *player, now time.Time) MatchResultData {
	var winner string
	loser := m.firstOut
	if loser == nil {
		loser = leaver
	}
	switch loser {
	case m.host:
		winner = m.guest.name
	case m.guest:
		winner = m.host.name
	}
	return MatchResultData{
		MatchID:      string(m.id),
		HostName:     m.host.name,
		GuestName:    m.guest.name,
		HostScore:    m.host.score,
		GuestScore:   m.guest.score,
		Winner:       winner,
		EndReason:    reason.String(),
		AttackMode:   m.settings.AttackMode,
		DurationSecs: int(now.Sub(m.startedAt).Seconds()),
	}
}

func (m *Match) info() MatchInfo {
	return MatchInfo{
		ID:        m.id,
		Host:      m.host.name,
		Guest:     m.guest.name,
		Settings:  m.settings,
		StartedAt: m.startedAt,
		Score1:    m.host.score,
		Score2:    m.guest.score,
	}
}
