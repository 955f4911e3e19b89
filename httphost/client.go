package httphost

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	TypeState    = "state"
	TypePush     = "push"
	TypeReplace  = "replace"
	TypeGo       = "go"
	TypeChange   = "change"
	TypePopState = "popstate"
	TypeNavigate = "navigate"
	TypeError    = "error"
)

// Message is exchanged with clients over the websocket.
type Message struct {
	Type  string     `json:"type"`
	URL   string     `json:"url,omitempty"`
	Delta int        `json:"delta,omitempty"`
	State *StateView `json:"state,omitempty"`
	Error string     `json:"error,omitempty"`
}

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

type client struct {
	conn   *websocket.Conn
	logger *slog.Logger
	queue  chan Message

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		logger: logger,
		queue:  make(chan Message, sendBuffer),
	}
}

// send queues msg for delivery. A client that cannot keep up is closed
// and send reports false.
func (c *client) send(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.queue <- msg:
		return true
	default:
		c.logger.Warn("dropping slow websocket client", slog.String("remote", c.conn.RemoteAddr().String()))
		c.closed = true
		close(c.queue)
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.queue)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.queue {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Debug("websocket write failed", slog.Any("error", err))
			c.close()
			for range c.queue {
			}
			return
		}
	}
}
