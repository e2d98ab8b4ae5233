package app

import (
	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickSubscriber
	DropFrame
)

type Policy interface {
	OnBackPressure(room domain.RoomID, sid core.SessionID) BackpressureAction
}

// SimplePolicy evicts any subscriber that cannot keep up.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, sid core.SessionID) BackpressureAction {
	return KickSubscriber
}
