package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/focusopolis/internal/adapters/store"
	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

func newChatFixture(t *testing.T) (*Chat, *Broadcaster, *store.MemoryStore, domain.RoomID) {
	t.Helper()
	st := store.NewMemoryStore()
	bcast := NewBroadcaster(SimplePolicy{})
	chat := NewChat(st, bcast)
	room, err := st.Create(context.Background(), "focus", alice)
	require.NoError(t, err)
	return chat, bcast, st, room.ID
}

func TestSendValidation(t *testing.T) {
	chat, _, _, roomID := newChatFixture(t)
	sender := &domain.User{ID: alice, Username: "alice"}

	_, err := chat.Send(context.Background(), roomID, sender, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = chat.Send(context.Background(), roomID, sender, strings.Repeat("x", domain.MaxMessageLen+1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = chat.Send(context.Background(), domain.RoomID("gone"), sender, "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryIsBoundedAndOrdered(t *testing.T) {
	chat, _, _, roomID := newChatFixture(t)
	ctx := context.Background()
	sender := &domain.User{ID: alice, Username: "alice"}

	for i := 0; i < domain.MaxChatHistory+50; i++ {
		_, err := chat.Send(ctx, roomID, sender, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	msgs, err := chat.History(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, msgs, domain.MaxChatHistory, "history keeps only the newest messages")

	assert.Equal(t, "msg 50", msgs[0].Message, "oldest survivors dropped first")
	assert.Equal(t, fmt.Sprintf("msg %d", domain.MaxChatHistory+49), msgs[len(msgs)-1].Message)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp), "timestamps non-decreasing")
	}
}

func TestSendBroadcastsToAllSubscribersIncludingSender(t *testing.T) {
	chat, bcast, _, roomID := newChatFixture(t)
	ctx := context.Background()

	sender := &domain.User{ID: alice, Username: "alice"}
	peer := &domain.User{ID: bob, Username: "bob"}

	conns := map[core.SessionID]*fakeConn{}
	for sid, u := range map[core.SessionID]*domain.User{"s1": sender, "s2": peer} {
		conn := newFakeConn(8)
		conns[sid] = conn
		bcast.Bind(sid, &fakeSub{user: u, conn: conn}, nil)
		require.True(t, bcast.Subscribe(sid, roomID))
	}

	_, err := chat.Send(ctx, roomID, sender, "first")
	require.NoError(t, err)
	_, err = chat.Send(ctx, roomID, peer, "second")
	require.NoError(t, err)

	for sid, conn := range conns {
		require.Len(t, conn.frames, 2, "connection %s", sid)
		var ev ChatEvent
		require.NoError(t, json.Unmarshal(<-conn.frames, &ev))
		assert.Equal(t, "message", ev.Type)
		assert.Equal(t, roomID, ev.Room)
		assert.Equal(t, "first", ev.Message)
		assert.Equal(t, alice, ev.UserID)

		require.NoError(t, json.Unmarshal(<-conn.frames, &ev))
		assert.Equal(t, "second", ev.Message)
		assert.Equal(t, bob, ev.UserID)
	}
}

func TestSendPersistsEvenWithNoSubscribers(t *testing.T) {
	chat, _, _, roomID := newChatFixture(t)
	ctx := context.Background()
	sender := &domain.User{ID: alice, Username: "alice"}

	msg, err := chat.Send(ctx, roomID, sender, "anyone here?")
	require.NoError(t, err)
	assert.Equal(t, "anyone here?", msg.Message)

	msgs, err := chat.History(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
