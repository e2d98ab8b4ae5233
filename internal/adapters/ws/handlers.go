package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

func (ctl *Controller) handleEvent(ctx context.Context, sid core.SessionID, user *domain.User, c *Conn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(ctx, sid, c, data)
	case "leave":
		ctl.Bcast.Unsubscribe(sid)
		ctl.sendJSON(c, map[string]any{"type": "left"})
	case "message":
		ctl.handleMessage(ctx, sid, user, c, data)
	case "ping":
		ctl.sendJSON(c, map[string]any{"type": "pong"})
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown event")
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "unknown_event"})
	}
}

// handleJoin subscribes the connection to a room's channel. One room per
// connection: joining again replaces the previous subscription.
func (ctl *Controller) handleJoin(ctx context.Context, sid core.SessionID, c *Conn, data []byte) {
	var p struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}
	id := domain.RoomID(p.Room)
	if _, err := ctl.Rooms.Get(ctx, id); err != nil {
		ctl.sendErr(c, err)
		return
	}
	ctl.Bcast.Subscribe(sid, id)
	ctl.sendJSON(c, map[string]any{"type": "joined", "room": p.Room})
	log.Info().Str("module", "ws").Str("sid", string(sid)).Str("room", p.Room).Msg("join")
}

func (ctl *Controller) handleMessage(ctx context.Context, sid core.SessionID, user *domain.User, c *Conn, data []byte) {
	var p struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}
	room, ok := ctl.Bcast.RoomOf(sid)
	if !ok {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "join a room first"})
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(user.ID) {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "rate_limited"})
		return
	}
	// The sender's copy arrives through the broadcast echo; failures go
	// to the sender only.
	if _, err := ctl.Chat.Send(ctx, room, user, p.Message); err != nil {
		ctl.sendErr(c, err)
	}
}

func (ctl *Controller) sendErr(c *Conn, err error) {
	code := "internal"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = "not_found"
	case errors.Is(err, domain.ErrForbidden):
		code = "forbidden"
	case errors.Is(err, domain.ErrInvalidArgument):
		code = "invalid_argument"
	case errors.Is(err, domain.ErrUnauthenticated):
		code = "unauthenticated"
	}
	ctl.sendJSON(c, map[string]any{"type": "error", "error": err.Error(), "code": code})
}

func (ctl *Controller) sendJSON(c *Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
