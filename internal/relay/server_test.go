package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blocks/internal/multiplayer"
	"github.com/vovakirdan/tui-blocks/internal/online"
)

type memorySaver struct {
	mu      sync.Mutex
	results []multiplayer.MatchResultData
}

func (m *memorySaver) SaveMatchResult(r multiplayer.MatchResultData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memorySaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func startRelay(t *testing.T) (*httptest.Server, *memorySaver) {
	t.Helper()
	saver := &memorySaver{}
	s := New(Config{Coordinator: multiplayer.DefaultCoordinatorConfig()}, saver, log.New(io.Discard))
	s.Start()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		s.Stop()
	})
	return srv, saver
}

func dial(t *testing.T, srv *httptest.Server) *online.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, err := online.Dial(ctx, url, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// await reads frames until one of type want arrives.
func await(t *testing.T, c *online.Client, want online.MessageType) online.Envelope {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case data, ok := <-c.Messages():
			require.True(t, ok, "connection closed while waiting for %s", want)
			env, err := online.Decode(data)
			require.NoError(t, err)
			if env.Type == want {
				return env
			}
		case <-timeout:
			require.FailNow(t, "timed out", "waiting for %s", want)
		}
	}
}

func send(t *testing.T, c *online.Client, typ online.MessageType, payload any) {
	t.Helper()
	env, err := online.NewEnvelope(typ, payload)
	require.NoError(t, err)
	require.NoError(t, c.Send(env))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := startRelay(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["matches"])
}

func TestMatchOverWebSocket(t *testing.T) {
	srv, saver := startRelay(t)

	alice := dial(t, srv)
	await(t, alice, online.MsgRoomStatus)
	send(t, alice, online.MsgJoinGame, online.JoinGame{
		Name:     "alice",
		Settings: &online.HostSettings{AttackMode: online.AttackLines},
	})
	await(t, alice, online.MsgWaiting)

	bob := dial(t, srv)
	var status online.RoomStatus
	require.NoError(t, await(t, bob, online.MsgRoomStatus).Into(&status))
	assert.True(t, status.HasHost)

	send(t, bob, online.MsgJoinGame, online.JoinGame{Name: "bob"})
	var start online.GameStart
	require.NoError(t, await(t, bob, online.MsgGameStart).Into(&start))
	assert.Equal(t, "alice", start.OpponentName)
	assert.Equal(t, online.AttackLines, start.AttackMode)
	require.NoError(t, await(t, alice, online.MsgGameStart).Into(&start))
	assert.True(t, start.IsHost)

	resp, err := http.Get(srv.URL + "/matches")
	require.NoError(t, err)
	var listing struct {
		Matches []multiplayer.MatchInfo `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	require.Len(t, listing.Matches, 1)
	assert.Equal(t, "bob", listing.Matches[0].Guest)

	send(t, alice, online.MsgAttack, online.Attack{Lines: 3})
	var a online.Attack
	require.NoError(t, await(t, bob, online.MsgAttack).Into(&a))
	assert.Equal(t, 3, a.Lines)

	require.NoError(t, bob.Close())
	await(t, alice, online.MsgPlayerLeft)
	assert.Eventually(t, func() bool { return saver.count() == 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestMalformedFrameGetsError(t *testing.T) {
	srv, _ := startRelay(t)
	c := dial(t, srv)
	await(t, c, online.MsgRoomStatus)

	require.NoError(t, c.Send(online.Envelope{Type: "bogus"}))
	var e online.ServerError
	require.NoError(t, await(t, c, online.MsgServerError).Into(&e))
	assert.Equal(t, "malformed message", e.Message)
}
