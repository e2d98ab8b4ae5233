package app

import (
	"context"
	"time"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

// fakeLedger serves canned profiles and focus histories.
type fakeLedger struct {
	profiles map[domain.UserID]domain.MemberProfile
	sessions map[domain.UserID][]domain.FocusSession
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		profiles: make(map[domain.UserID]domain.MemberProfile),
		sessions: make(map[domain.UserID][]domain.FocusSession),
	}
}

func (f *fakeLedger) SessionsSince(_ context.Context, user domain.UserID, since time.Time) ([]domain.FocusSession, error) {
	var out []domain.FocusSession
	for _, s := range f.sessions[user] {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeLedger) Profile(_ context.Context, user domain.UserID) (domain.MemberProfile, error) {
	if p, ok := f.profiles[user]; ok {
		return p, nil
	}
	return domain.MemberProfile{ID: user, Username: "Unknown User"}, nil
}

// fakeConn queues frames in a bounded channel, mirroring the websocket
// adapter's non-blocking send.
type fakeConn struct {
	frames chan core.Frame
	closed bool
}

func newFakeConn(capacity int) *fakeConn {
	return &fakeConn{frames: make(chan core.Frame, capacity)}
}

func (c *fakeConn) TrySend(f core.Frame) error {
	select {
	case c.frames <- f:
		return nil
	default:
		return errFull
	}
}

func (c *fakeConn) Close() { c.closed = true }

type fullError struct{}

func (fullError) Error() string { return "send queue full" }

var errFull = fullError{}

type fakeSub struct {
	user *domain.User
	conn *fakeConn
}

func (s *fakeSub) Meta() *domain.User            { return s.user }
func (s *fakeSub) Signal() core.SignalConnection { return s.conn }
