package core

import (
	"context"

	"github.com/dkeye/focusopolis/internal/domain"
)

// RoomStore is the durable record of rooms. Every mutation is atomic with
// respect to concurrent mutators of the same room; different rooms never
// serialize against each other. Add/RemoveMember are idempotent.
type RoomStore interface {
	Create(ctx context.Context, name string, creator domain.UserID) (*domain.Room, error)
	GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	Delete(ctx context.Context, id domain.RoomID) error

	AddMember(ctx context.Context, id domain.RoomID, user domain.UserID) error
	RemoveMember(ctx context.Context, id domain.RoomID, user domain.UserID) error
	UpdateDescription(ctx context.Context, id domain.RoomID, desc string) error
	SetGoal(ctx context.Context, id domain.RoomID, goal domain.Goal) error

	// AppendMessage stamps the timestamp at persistence time, evicts the
	// oldest entries past domain.MaxChatHistory in the same write, and
	// returns the stored message.
	AppendMessage(ctx context.Context, id domain.RoomID, user domain.UserID, username, body string) (domain.ChatMessage, error)
	Messages(ctx context.Context, id domain.RoomID) ([]domain.ChatMessage, error)
}
