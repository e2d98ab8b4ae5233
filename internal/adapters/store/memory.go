// Package store provides the durable room record. The Mongo store is the
// production implementation; the memory store backs tests and local dev and
// honors the same contract, including per-room atomicity.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/focusopolis/internal/domain"
)

type memRoom struct {
	mu     sync.Mutex
	room   domain.Room
	lastTS time.Time
}

// MemoryStore keeps rooms in process memory. The outer lock guards the map
// only; each room carries its own mutex so read-modify-write sequences on
// one room are atomic without serializing unrelated rooms.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*memRoom
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[domain.RoomID]*memRoom)}
}

func (s *MemoryStore) Create(ctx context.Context, name string, creator domain.UserID) (*domain.Room, error) {
	room := domain.Room{
		ID:        domain.RoomID(uuid.NewString()),
		Name:      name,
		CreatedBy: creator,
		Members:   []domain.UserID{creator},
		CreatedAt: time.Now().UTC(),
		Messages:  []domain.ChatMessage{},
	}
	s.mu.Lock()
	s.rooms[room.ID] = &memRoom{room: room}
	s.mu.Unlock()
	return cloneRoom(room), nil
}

func (s *MemoryStore) get(id domain.RoomID) (*memRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return r, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRoom(r.room), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*domain.Room, error) {
	s.mu.RLock()
	entries := make([]*memRoom, 0, len(s.rooms))
	for _, r := range s.rooms {
		entries = append(entries, r)
	}
	s.mu.RUnlock()

	out := make([]*domain.Room, 0, len(entries))
	for _, r := range entries {
		r.mu.Lock()
		out = append(out, cloneRoom(r.room))
		r.mu.Unlock()
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	delete(s.rooms, id)
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.room.Members {
		if m == user {
			return nil
		}
	}
	r.room.Members = append(r.room.Members, user)
	return nil
}

func (s *MemoryStore) RemoveMember(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.room.Members[:0]
	for _, m := range r.room.Members {
		if m != user {
			kept = append(kept, m)
		}
	}
	r.room.Members = kept
	return nil
}

func (s *MemoryStore) UpdateDescription(ctx context.Context, id domain.RoomID, desc string) error {
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.room.Description = desc
	return nil
}

func (s *MemoryStore) SetGoal(ctx context.Context, id domain.RoomID, goal domain.Goal) error {
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.room.Goal = &goal
	return nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, id domain.RoomID, user domain.UserID, username, body string) (domain.ChatMessage, error) {
	r, err := s.get(id)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Timestamps are non-decreasing within a room even if the clock
	// steps backwards between two sends.
	ts := time.Now().UTC()
	if ts.Before(r.lastTS) {
		ts = r.lastTS
	}
	r.lastTS = ts

	msg := domain.ChatMessage{UserID: user, Username: username, Message: body, Timestamp: ts}
	r.room.Messages = append(r.room.Messages, msg)
	if n := len(r.room.Messages); n > domain.MaxChatHistory {
		r.room.Messages = append(r.room.Messages[:0:0], r.room.Messages[n-domain.MaxChatHistory:]...)
	}
	return msg, nil
}

func (s *MemoryStore) Messages(ctx context.Context, id domain.RoomID) ([]domain.ChatMessage, error) {
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ChatMessage, len(r.room.Messages))
	copy(out, r.room.Messages)
	return out, nil
}

func cloneRoom(r domain.Room) *domain.Room {
	out := r
	out.Members = append([]domain.UserID(nil), r.Members...)
	out.Messages = append([]domain.ChatMessage(nil), r.Messages...)
	if r.Goal != nil {
		g := *r.Goal
		out.Goal = &g
	}
	return &out
}
