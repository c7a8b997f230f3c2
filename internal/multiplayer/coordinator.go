package multiplayer

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/online"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a host may wait for an opponent
	CleanupPeriod time.Duration // how often expired hosts are dropped
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// waitingHost is the first player of a room, waiting for an opponent.
type waitingHost struct {
	player   *player
	settings online.HostSettings
	since    time.Time
}

// Coordinator pairs sessions in join order and relays frames within matches.
// Messages are processed one at a time on the coordinator's goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger
	now         func() time.Time

	mu           sync.RWMutex
	waiting      *waitingHost
	matches      map[MatchID]*Match
	sessionMatch map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	saves    sync.WaitGroup
}

// NewCoordinator creates a coordinator. A nil logger uses log.Default().
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		sessions:     sessions,
		logger:       logger,
		now:          time.Now,
		matches:      make(map[MatchID]*Match),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down and waits for pending result saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	c.saves.Wait()
}

// Send queues a message for processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case ConnectMsg:
		c.handleConnect(m)
	case FrameMsg:
		c.handleFrame(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleConnect(msg ConnectMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	c.sendTo(session, online.MsgRoomStatus, c.RoomStatus())
}

func (c *Coordinator) handleFrame(msg FrameMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	switch msg.Frame.Type {
	case online.MsgJoinGame:
		var join online.JoinGame
		if err := msg.Frame.Into(&join); err != nil {
			c.sendError(session, "invalid join_game payload")
			return
		}
		c.handleJoin(session, join)
	case online.MsgGameState, online.MsgAttack, online.MsgPause, online.MsgResume, online.MsgGameOver:
		c.handleRelay(session, msg.Frame)
	default:
		c.sendError(session, "unexpected message: "+string(msg.Frame.Type))
	}
}

func (c *Coordinator) handleJoin(session SessionHandle, join online.JoinGame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := session.ID()
	if c.waiting != nil && c.waiting.player.session.ID() == id {
		c.sendError(session, "already joined")
		return
	}
	if matchID, inMatch := c.sessionMatch[id]; inMatch {
		c.leaveForRematch(c.matches[matchID], id)
	}
	name := join.Name
	if name == "" {
		name = "player"
	}
	p := &player{session: session, name: name}

	if c.waiting == nil {
		settings := DefaultSettings()
		if join.Settings != nil {
			settings = *join.Settings
		}
		if settings.AttackMode != online.AttackLines {
			settings.AttackMode = online.AttackGarbage
		}
		c.waiting = &waitingHost{player: p, settings: settings, since: c.now()}
		c.sendTo(session, online.MsgWaiting, nil)
		c.logger.Info("host waiting", "session", id, "name", name)
		return
	}

	host := c.waiting
	c.waiting = nil
	c.startMatch(host, p)
}

// leaveForRematch closes the match a player is queueing out of. A winner
// never reports its own top-out, so a decided match stays open until the
// winner moves on; the opponent is told the seat is empty so it can queue too.
// Must be called with the lock held.
func (c *Coordinator) leaveForRematch(match *Match, id SessionID) {
	self, other := match.sides(id)
	if self == nil {
		return
	}
	c.sendTo(other.session, online.MsgPlayerLeft, nil)
	if match.firstOut != nil {
		c.endMatch(match, MatchEndReasonCompleted, nil)
		return
	}
	c.endMatch(match, MatchEndReasonDisconnect, self)
}

// startMatch must be called with the lock held.
func (c *Coordinator) startMatch(host *waitingHost, guest *player) {
	match := newMatch(NewMatchID(), host.player, guest, host.settings, c.now())
	c.matches[match.id] = match
	c.sessionMatch[host.player.session.ID()] = match.id
	c.sessionMatch[guest.session.ID()] = match.id

	settings := host.settings
	c.sendTo(host.player.session, online.MsgGameStart, online.GameStart{
		OpponentID:   string(guest.session.ID()),
		OpponentName: guest.name,
		MatchID:      string(match.id),
		AttackMode:   settings.AttackMode,
		IsHost:       true,
		Settings:     &settings,
	})
	c.sendTo(guest.session, online.MsgGameStart, online.GameStart{
		OpponentID:   string(host.player.session.ID()),
		OpponentName: host.player.name,
		MatchID:      string(match.id),
		AttackMode:   settings.AttackMode,
		IsHost:       false,
		Settings:     &settings,
	})
	c.logger.Info("match started", "match", match.id, "host", host.player.name, "guest", guest.name)
}

func (c *Coordinator) handleRelay(session SessionHandle, frame online.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matchID, ok := c.sessionMatch[session.ID()]
	if !ok {
		c.logger.Debug("frame outside a match", "session", session.ID(), "type", frame.Type)
		return
	}
	match := c.matches[matchID]
	self, other := match.sides(session.ID())
	if self == nil {
		return
	}

	finished := false
	switch frame.Type {
	case online.MsgGameState:
		var state online.GameState
		if err := frame.Into(&state); err != nil {
			c.sendError(session, "invalid game_state payload")
			return
		}
		match.recordState(self, state)
	case online.MsgGameOver:
		finished = match.recordGameOver(self)
	}

	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("re-encode failed", "type", frame.Type, "err", err)
		return
	}
	other.session.Send(data)

	if finished {
		c.endMatch(match, MatchEndReasonCompleted, nil)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting != nil && c.waiting.player.session.ID() == msg.SessionID {
		c.waiting = nil
		c.logger.Info("host left before pairing", "session", msg.SessionID)
	}

	matchID, inMatch := c.sessionMatch[msg.SessionID]
	if !inMatch {
		return
	}
	match := c.matches[matchID]
	self, other := match.sides(msg.SessionID)
	if self == nil {
		return
	}
	c.sendTo(other.session, online.MsgPlayerLeft, nil)
	c.endMatch(match, MatchEndReasonDisconnect, self)
}

// endMatch must be called with the lock held.
func (c *Coordinator) endMatch(match *Match, reason MatchEndReason, leaver *player) {
	delete(c.matches, match.id)
	delete(c.sessionMatch, match.host.session.ID())
	delete(c.sessionMatch, match.guest.session.ID())

	result := match.result(reason, leaver, c.now())
	c.logger.Info("match ended", "match", match.id, "reason", result.EndReason, "winner", result.Winner)

	if c.resultSaver == nil {
		return
	}
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		if err := c.resultSaver.SaveMatchResult(result); err != nil {
			c.logger.Warn("saving match result", "match", result.MatchID, "err", err)
		}
	}()
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobby()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobby() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting == nil || c.config.LobbyTimeout <= 0 {
		return
	}
	if c.now().Sub(c.waiting.since) > c.config.LobbyTimeout {
		c.sendError(c.waiting.player.session, "lobby expired")
		c.logger.Info("lobby expired", "session", c.waiting.player.session.ID())
		c.waiting = nil
	}
}

func (c *Coordinator) sendTo(session SessionHandle, t online.MessageType, payload any) {
	data, err := online.Encode(t, payload)
	if err != nil {
		c.logger.Error("encode failed", "type", t, "err", err)
		return
	}
	session.Send(data)
}

func (c *Coordinator) sendError(session SessionHandle, message string) {
	c.sendTo(session, online.MsgServerError, online.ServerError{Message: message})
}

// RoomStatus reports whether a host is waiting and with which settings.
func (c *Coordinator) RoomStatus() online.RoomStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.waiting == nil {
		return online.RoomStatus{}
	}
	settings := c.waiting.settings
	return online.RoomStatus{HasHost: true, HostSettings: &settings}
}

// Matches returns the running matches, oldest first.
func (c *Coordinator) Matches() []MatchInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MatchInfo, 0, len(c.matches))
	for _, m := range c.matches {
		out = append(out, m.info())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// HasWaitingHost reports whether someone is waiting for an opponent.
func (c *Coordinator) HasWaitingHost() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.waiting != nil
}
