// Package online implements networked versus play: the wire protocol, the
// client-side match state machine wrapped around a local engine, and a
// WebSocket transport. Each peer is authoritative for its own board; the
// opponent is only mirrored for display.
package online

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType names a protocol message.
type MessageType string

// Messages exchanged with the relay.
const (
	MsgJoinGame    MessageType = "join_game"
	MsgRoomStatus  MessageType = "room_status"
	MsgWaiting     MessageType = "waiting_for_opponent"
	MsgGameStart   MessageType = "game_start"
	MsgGameState   MessageType = "game_state"
	MsgAttack      MessageType = "attack"
	MsgPause       MessageType = "pause"
	MsgResume      MessageType = "resume"
	MsgGameOver    MessageType = "game_over"
	MsgPlayerLeft  MessageType = "player_left"
	MsgServerError MessageType = "error"
)

// Envelope is the JSON frame every message travels in.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HostSettings are chosen by the first player in a room and apply to both.
type HostSettings struct {
	AttackMode        string `json:"attackMode"`
	ShowGhostPiece    bool   `json:"showGhostPiece"`
	UseCascadeGravity bool   `json:"useCascadeGravity"`
}

// JoinGame asks the relay for a match.
type JoinGame struct {
	Name     string        `json:"name"`
	Settings *HostSettings `json:"settings,omitempty"`
}

// RoomStatus tells a fresh connection whether someone is already waiting.
type RoomStatus struct {
	HasHost      bool          `json:"hasHost"`
	HostSettings *HostSettings `json:"hostSettings,omitempty"`
}

// GameStart pairs the client with an opponent.
type GameStart struct {
	OpponentID   string        `json:"opponentId"`
	OpponentName string        `json:"opponentName"`
	MatchID      string        `json:"matchId"`
	AttackMode   string        `json:"attackMode,omitempty"`
	IsHost       bool          `json:"isHost"`
	Settings     *HostSettings `json:"settings,omitempty"`
}

// GameState is a peer's periodic board report.
type GameState struct {
	Grid  [][]int `json:"grid"`
	Score int     `json:"score"`
	Lines int     `json:"lines"`
}

// Attack sends garbage rows to the opponent.
type Attack struct {
	Lines int `json:"lines"`
}

// ServerError reports a relay-side problem.
type ServerError struct {
	Message string `json:"message"`
}

// ErrUnknownMessage is returned by Decode for unrecognized types.
var ErrUnknownMessage = errors.New("online: unknown message type")

// NewEnvelope wraps payload in an envelope. A nil payload becomes {}.
func NewEnvelope(t MessageType, payload any) (Envelope, error) {
	if payload == nil {
		payload = struct{}{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("online: encode %s: %w", t, err)
	}
	return Envelope{Type: t, Payload: data}, nil
}

// Encode marshals a complete frame.
func Encode(t MessageType, payload any) ([]byte, error) {
	env, err := NewEnvelope(t, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Decode parses a frame and checks that its type is known.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("online: decode frame: %w", err)
	}
	switch env.Type {
	case MsgJoinGame, MsgRoomStatus, MsgWaiting, MsgGameStart, MsgGameState,
		MsgAttack, MsgPause, MsgResume, MsgGameOver, MsgPlayerLeft, MsgServerError:
		return env, nil
	default:
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
}

// Into unmarshals the payload into v. An empty payload leaves v untouched.
func (e Envelope) Into(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("online: %s payload: %w", e.Type, err)
	}
	return nil
}
