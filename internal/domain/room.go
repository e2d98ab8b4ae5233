package domain

import "time"

type RoomID string

const (
	MaxRoomNameLen = 100

	// MaxChatHistory bounds the embedded message list of a room.
	// The oldest messages are evicted first.
	MaxChatHistory = 100

	MaxMessageLen = 1000
)

// Room is an admin-owned group of users sharing chat, a goal and a
// leaderboard. CreatedBy is immutable; the creator starts as a member but
// may leave like anyone else, in which case ownership does not transfer.
type Room struct {
	ID          RoomID        `json:"id"`
	Name        string        `json:"name"`
	CreatedBy   UserID        `json:"createdBy"`
	Members     []UserID      `json:"members"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	Goal        *Goal         `json:"goal,omitempty"`
	Messages    []ChatMessage `json:"-"`
}

func (r *Room) IsCreator(id UserID) bool { return r.CreatedBy == id }

func (r *Room) IsMember(id UserID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// ChatMessage is immutable once persisted. Username is captured at send
// time and is not re-resolved if the sender later renames.
type ChatMessage struct {
	UserID    UserID    `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
