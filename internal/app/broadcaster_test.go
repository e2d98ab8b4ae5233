package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

func TestSubscribeRequiresBind(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})
	assert.False(t, b.Subscribe("ghost", "room-1"))
}

func TestResubscribeReplacesRoom(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})
	conn := newFakeConn(4)
	b.Bind("s1", &fakeSub{user: &domain.User{ID: alice}, conn: conn}, nil)

	require.True(t, b.Subscribe("s1", "room-a"))
	require.True(t, b.Subscribe("s1", "room-b"))

	room, ok := b.RoomOf("s1")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("room-b"), room)
	assert.Zero(t, b.SubscriberCount("room-a"))
	assert.Equal(t, 1, b.SubscriberCount("room-b"))
}

func TestPublishSkipsOtherRooms(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})
	inRoom := newFakeConn(4)
	elsewhere := newFakeConn(4)
	b.Bind("s1", &fakeSub{user: &domain.User{ID: alice}, conn: inRoom}, nil)
	b.Bind("s2", &fakeSub{user: &domain.User{ID: bob}, conn: elsewhere}, nil)
	b.Subscribe("s1", "room-a")
	b.Subscribe("s2", "room-b")

	res := b.Publish("room-a", core.Frame(`{"type":"message"}`))
	assert.Equal(t, 1, res.SentTo)
	assert.Empty(t, res.Dropped)
	assert.Len(t, inRoom.frames, 1)
	assert.Empty(t, elsewhere.frames)
}

func TestSlowSubscriberIsEvictedWithoutStallingOthers(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})

	healthy := newFakeConn(8)
	stalled := newFakeConn(1)
	cancelled := false

	b.Bind("fast", &fakeSub{user: &domain.User{ID: alice}, conn: healthy}, nil)
	b.Bind("slow", &fakeSub{user: &domain.User{ID: bob}, conn: stalled}, func() { cancelled = true })
	b.Subscribe("fast", "room-a")
	b.Subscribe("slow", "room-a")

	// First frame fills the stalled queue.
	res := b.Publish("room-a", core.Frame(`1`))
	assert.Equal(t, 2, res.SentTo)

	// Second frame overflows it; the policy kicks the subscriber.
	res = b.Publish("room-a", core.Frame(`2`))
	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, []core.SessionID{"slow"}, res.Dropped)
	assert.True(t, cancelled, "eviction cancels the connection's pumps")

	_, ok := b.RoomOf("slow")
	assert.False(t, ok)
	assert.Len(t, healthy.frames, 2, "healthy subscriber received every frame")

	// Delivery continues for the survivors.
	res = b.Publish("room-a", core.Frame(`3`))
	assert.Equal(t, 1, res.SentTo)
	assert.Empty(t, res.Dropped)
}

func TestUnbindOnlyEndsTheSubscription(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})
	conn := newFakeConn(4)
	b.Bind("s1", &fakeSub{user: &domain.User{ID: alice}, conn: conn}, nil)
	b.Subscribe("s1", "room-a")

	b.Unbind("s1")
	assert.Zero(t, b.SubscriberCount("room-a"))

	res := b.Publish("room-a", core.Frame(`x`))
	assert.Zero(t, res.SentTo)
}

func TestDropRoomEvictsAllItsSubscribers(t *testing.T) {
	b := NewBroadcaster(SimplePolicy{})
	a := newFakeConn(4)
	c := newFakeConn(4)
	other := newFakeConn(4)
	b.Bind("s1", &fakeSub{user: &domain.User{ID: alice}, conn: a}, nil)
	b.Bind("s2", &fakeSub{user: &domain.User{ID: bob}, conn: c}, nil)
	b.Bind("s3", &fakeSub{user: &domain.User{ID: carol}, conn: other}, nil)
	b.Subscribe("s1", "doomed")
	b.Subscribe("s2", "doomed")
	b.Subscribe("s3", "survivor")

	b.DropRoom("doomed")

	assert.Zero(t, b.SubscriberCount("doomed"))
	assert.Equal(t, 1, b.SubscriberCount("survivor"))
}
