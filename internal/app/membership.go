package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

// Membership owns the room lifecycle and the membership rules. Atomicity of
// each mutation is the store's job; this layer enforces who may do what.
type Membership struct {
	store core.RoomStore
}

func NewMembership(store core.RoomStore) *Membership {
	return &Membership{store: store}
}

func (m *Membership) Create(ctx context.Context, name string, creator domain.UserID) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is empty", domain.ErrInvalidArgument)
	}
	if len(name) > domain.MaxRoomNameLen {
		return nil, fmt.Errorf("%w: room name too long", domain.ErrInvalidArgument)
	}
	room, err := m.store.Create(ctx, name, creator)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.membership").Str("room", string(room.ID)).
		Str("creator", string(creator)).Msg("room created")
	return room, nil
}

func (m *Membership) Get(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return m.store.GetByID(ctx, id)
}

func (m *Membership) List(ctx context.Context) ([]core.RoomInfo, error) {
	rooms, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, core.RoomInfo{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			MemberCount: len(r.Members),
		})
	}
	return out, nil
}

// Join is idempotent: joining a room twice is a no-op success.
func (m *Membership) Join(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	return m.store.AddMember(ctx, id, user)
}

// Leave is idempotent and does not special-case the creator: a creator may
// leave its own room through this path, leaving createdBy pointing at a
// non-member. Remove-member is the only operation that shields the creator.
func (m *Membership) Leave(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	return m.store.RemoveMember(ctx, id, user)
}

func (m *Membership) RemoveMember(ctx context.Context, id domain.RoomID, actor, target domain.UserID) error {
	room, err := m.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !room.IsCreator(actor) {
		return fmt.Errorf("%w: only the room creator can remove members", domain.ErrForbidden)
	}
	if target == actor {
		return fmt.Errorf("%w: the creator cannot remove itself", domain.ErrInvalidArgument)
	}
	return m.store.RemoveMember(ctx, id, target)
}

func (m *Membership) UpdateDescription(ctx context.Context, id domain.RoomID, actor domain.UserID, text string) error {
	room, err := m.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !room.IsCreator(actor) {
		return fmt.Errorf("%w: only the room creator can edit the description", domain.ErrForbidden)
	}
	return m.store.UpdateDescription(ctx, id, text)
}

// Delete is irreversible and cascades the chat history, which is embedded
// in the room record.
func (m *Membership) Delete(ctx context.Context, id domain.RoomID, actor domain.UserID) error {
	room, err := m.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !room.IsCreator(actor) {
		return fmt.Errorf("%w: only the room creator can delete the room", domain.ErrForbidden)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("module", "app.membership").Str("room", string(id)).
		Str("actor", string(actor)).Msg("room deleted")
	return nil
}
