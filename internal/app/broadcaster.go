package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

type subEntry struct {
	Room   domain.RoomID
	Sub    core.Subscriber
	Cancel context.CancelFunc
}

// Broadcaster is the single-process chat fan-out layer. It tracks live
// connections and which room each one is subscribed to; durable membership
// lives in the store and is unaffected by anything here.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[core.SessionID]*subEntry
	policy Policy
}

func NewBroadcaster(policy Policy) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[core.SessionID]*subEntry),
		policy: policy,
	}
}

// Bind registers a connection with no room yet. Cancel tears down the
// connection's pumps when the subscriber is evicted.
func (b *Broadcaster) Bind(sid core.SessionID, sub core.Subscriber, cancel context.CancelFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sid] = &subEntry{Sub: sub, Cancel: cancel}
	log.Info().Str("module", "app.broadcaster").Str("sid", string(sid)).Msg("bound connection")
}

// Subscribe points the connection at a room. A connection is subscribed to
// exactly one room at a time; re-subscribing replaces the previous room.
func (b *Broadcaster) Subscribe(sid core.SessionID, room domain.RoomID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.subs[sid]
	if !ok {
		return false
	}
	e.Room = room
	log.Info().Str("module", "app.broadcaster").Str("sid", string(sid)).Str("room", string(room)).Msg("subscribed")
	return true
}

// Unsubscribe clears the room association but keeps the connection bound.
func (b *Broadcaster) Unsubscribe(sid core.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.subs[sid]; ok {
		e.Room = ""
	}
}

// Unbind removes the connection entirely. Called on disconnect; no other
// room state changes.
func (b *Broadcaster) Unbind(sid core.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sid)
	log.Info().Str("module", "app.broadcaster").Str("sid", string(sid)).Msg("unbound connection")
}

func (b *Broadcaster) RoomOf(sid core.SessionID) (domain.RoomID, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.subs[sid]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

func (b *Broadcaster) SubscriberCount(room domain.RoomID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, e := range b.subs {
		if e.Room == room {
			n++
		}
	}
	return n
}

// Publish fans a frame out to every subscriber of the room, the sender's
// own connection included. TrySend never blocks; a subscriber whose queue
// is full is handed to the backpressure policy so one stalled connection
// cannot delay delivery to the others.
func (b *Broadcaster) Publish(room domain.RoomID, data core.Frame) core.PublishResult {
	b.mu.RLock()
	targets := make(map[core.SessionID]core.Subscriber)
	for sid, e := range b.subs {
		if e.Room == room {
			targets[sid] = e.Sub
		}
	}
	b.mu.RUnlock()

	res := core.PublishResult{}
	for sid, sub := range targets {
		if err := sub.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}

	for _, sid := range res.Dropped {
		switch b.policy.OnBackPressure(room, sid) {
		case KickSubscriber:
			b.Evict(sid)
		case DropFrame, NoAction:
		}
	}

	log.Debug().Str("module", "app.broadcaster").Str("room", string(room)).
		Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("publish result")
	return res
}

// Evict cancels the connection's pumps and forgets it.
func (b *Broadcaster) Evict(sid core.SessionID) {
	b.mu.Lock()
	e, ok := b.subs[sid]
	if ok {
		delete(b.subs, sid)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.broadcaster").Str("sid", string(sid)).Msg("evicted subscriber")
}

// DropRoom evicts every subscriber of a room. Used after room deletion.
func (b *Broadcaster) DropRoom(room domain.RoomID) {
	b.mu.RLock()
	var sids []core.SessionID
	for sid, e := range b.subs {
		if e.Room == room {
			sids = append(sids, sid)
		}
	}
	b.mu.RUnlock()
	for _, sid := range sids {
		b.Evict(sid)
	}
}
