package core

import "github.com/dkeye/focusopolis/internal/domain"

// Frame is a marshaled outbound payload.
type Frame []byte

// SessionID identifies one live connection, not a user: the same user may
// hold several connections at once.
type SessionID string

// SignalConnection abstracts the messaging transport of one subscriber.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking and fails on backpressure.
	TrySend(Frame) error
	Close()
}

// Subscriber binds a verified identity to its transport endpoint.
// This is what the broadcaster stores and fans out to.
type Subscriber interface {
	Meta() *domain.User
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}
