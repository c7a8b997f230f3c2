package online

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	sendQueueSize = 64
	recvQueueSize = 64
	pingInterval  = 15 * time.Second
	writeTimeout  = 5 * time.Second
)

var (
	// ErrClosed is returned by Send after the connection has ended.
	ErrClosed = errors.New("online: connection closed")
	// ErrQueueFull is returned by Send when the writer cannot keep up.
	ErrQueueFull = errors.New("online: send queue full")
)

// Client is a WebSocket Transport. Frames are written by one goroutine and
// read by another; received frames are delivered raw on Messages so the
// game can log and drop the malformed ones.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger

	send chan Envelope
	recv chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Dial connects to a relay URL such as ws://localhost:8080/ws.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("online: dial %s: %w", url, err)
	}
	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:   conn,
		logger: logger,
		send:   make(chan Envelope, sendQueueSize),
		recv:   make(chan []byte, recvQueueSize),
		ctx:    cctx,
		cancel: cancel,
	}
	c.wg.Add(2)
	go c.writeLoop()
	go c.readLoop()
	return c, nil
}

// Send queues a frame without blocking.
func (c *Client) Send(env Envelope) error {
	select {
	case <-c.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case c.send <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

// Messages delivers raw frames. It is closed when the connection ends.
func (c *Client) Messages() <-chan []byte {
	return c.recv
}

// Done is closed once the connection is shutting down.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close ends the connection and waits for both loops to exit. Calls after
// the first return nil.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close(websocket.StatusNormalClosure, "bye")
		c.cancel()
		c.wg.Wait()
	})
	return err
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.err == nil && c.ctx.Err() == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.cancel()
}

func (c *Client) writeLoop() {
	defer c.wg.Done()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case env := <-c.send:
			ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
			err := wsjson.Write(ctx, c.conn, env)
			cancel()
			if err != nil {
				c.logger.Warn("write failed", "type", env.Type, "err", err)
				c.fail(err)
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(c.ctx); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.recv)
	for {
		typ, data, err := c.conn.Read(c.ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.fail(err)
			} else {
				c.cancel()
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		select {
		case c.recv <- data:
		case <-c.ctx.Done():
			return
		}
	}
}
