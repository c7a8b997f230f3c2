// Package relay serves the versus WebSocket endpoint. It accepts sockets,
// turns them into coordinator sessions and exposes a small JSON status API.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"

	"github.com/vovakirdan/tui-blocks/internal/multiplayer"
	"github.com/vovakirdan/tui-blocks/internal/online"
)

const (
	sessionBuffer = 64
	pingInterval  = 15 * time.Second
	writeTimeout  = 5 * time.Second
)

// Config configures the relay.
type Config struct {
	Addr           string
	OriginPatterns []string // empty accepts any origin
	Coordinator    multiplayer.CoordinatorConfig
}

// Server is the relay HTTP server.
type Server struct {
	cfg      Config
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
	router   *gin.Engine
}

// New builds a relay. saver may be nil; logger nil means log.Default().
func New(cfg Config, saver multiplayer.MatchResultSaver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(cfg.Coordinator, sessions, logger.WithPrefix("coordinator"))
	if saver != nil {
		coord.SetResultSaver(saver)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		coord:    coord,
		logger:   logger,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/matches", s.handleMatches)
	s.router.GET("/ws", s.handleWS)
	return s
}

// Handler returns the HTTP handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the coordinator. Handler may be served after Start.
func (s *Server) Start() {
	s.coord.Start()
}

// Stop halts the coordinator and waits for pending result saves.
func (s *Server) Stop() {
	s.coord.Stop()
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Start()
	defer s.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("relay listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("relay: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("relay: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"matches":  s.coord.MatchCount(),
		"waiting":  s.coord.HasWaitingHost(),
	})
}

func (s *Server) handleMatches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": s.coord.Matches()})
}

func (s *Server) handleWS(c *gin.Context) {
	opts := &websocket.AcceptOptions{OriginPatterns: s.cfg.OriginPatterns}
	if len(s.cfg.OriginPatterns) == 0 {
		opts.InsecureSkipVerify = true
	}
	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		s.logger.Warn("websocket accept failed", "remote", c.ClientIP(), "err", err)
		return
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), sessionBuffer)
	s.sessions.Register(session)
	s.logger.Info("client connected", "session", session.ID(), "remote", c.ClientIP())

	ctx, cancel := context.WithCancel(c.Request.Context())
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, conn, session)
	}()

	s.coord.Send(multiplayer.ConnectMsg{SessionID: session.ID()})
	s.readLoop(ctx, conn, session)

	s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
	s.sessions.Unregister(session.ID())
	session.Close()
	cancel()
	<-writerDone
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	s.logger.Info("client disconnected", "session", session.ID())
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, session *multiplayer.ChannelSession) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		env, err := online.Decode(data)
		if err != nil {
			s.logger.Warn("dropping frame", "session", session.ID(), "err", err)
			if frame, encErr := online.Encode(online.MsgServerError, online.ServerError{Message: "malformed message"}); encErr == nil {
				session.Send(frame)
			}
			continue
		}
		s.coord.Send(multiplayer.FrameMsg{SessionID: session.ID(), Frame: env})
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, session *multiplayer.ChannelSession) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case frame := <-session.Frames():
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				return
			}
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-session.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}
