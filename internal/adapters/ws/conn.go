package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Conn wraps one websocket with a buffered outbound queue so broadcasts
// never block on a slow peer.
type Conn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// session binds the verified identity to its connection; this is what the
// broadcaster fans out to.
type session struct {
	user *domain.User
	conn *Conn
}

func (s *session) Meta() *domain.User            { return s.user }
func (s *session) Signal() core.SignalConnection { return s.conn }
