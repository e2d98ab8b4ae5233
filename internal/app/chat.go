package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

// ChatEvent is the frame pushed to every subscriber of a room, the sender
// included; clients rely on receiving their own echo.
type ChatEvent struct {
	Type      string        `json:"type"`
	Room      domain.RoomID `json:"room"`
	UserID    domain.UserID `json:"userId"`
	Username  string        `json:"username"`
	Message   string        `json:"message"`
	Timestamp int64         `json:"timestamp"` // unix millis
}

// Chat persists messages into the room's bounded history and fans them out
// to live subscribers. Persistence is the durability point: a message that
// fails to persist is never broadcast.
type Chat struct {
	store core.RoomStore
	bcast *Broadcaster
}

func NewChat(store core.RoomStore, bcast *Broadcaster) *Chat {
	return &Chat{store: store, bcast: bcast}
}

func (c *Chat) Send(ctx context.Context, room domain.RoomID, sender *domain.User, body string) (domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: message is empty", domain.ErrInvalidArgument)
	}
	if len(body) > domain.MaxMessageLen {
		return domain.ChatMessage{}, fmt.Errorf("%w: message too long", domain.ErrInvalidArgument)
	}

	msg, err := c.store.AppendMessage(ctx, room, sender.ID, sender.Username, body)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	frame, err := json.Marshal(ChatEvent{
		Type:      "message",
		Room:      room,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Message:   msg.Message,
		Timestamp: msg.Timestamp.UnixMilli(),
	})
	if err != nil {
		// The message is already durable; the caller still gets it back.
		log.Error().Err(err).Str("module", "app.chat").Msg("marshal chat event")
		return msg, nil
	}
	c.bcast.Publish(room, frame)
	return msg, nil
}

// History returns the persisted messages sorted by timestamp ascending,
// capped at domain.MaxChatHistory.
func (c *Chat) History(ctx context.Context, room domain.RoomID) ([]domain.ChatMessage, error) {
	msgs, err := c.store.Messages(ctx, room)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	if len(msgs) > domain.MaxChatHistory {
		msgs = msgs[len(msgs)-domain.MaxChatHistory:]
	}
	return msgs, nil
}
