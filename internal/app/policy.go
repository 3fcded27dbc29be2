package app

import (
	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(room *core.RoomController, session *domain.PlayerSession) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(*core.RoomController, *domain.PlayerSession) BackpressureAction {
	return KickMember
}

// TolerantPolicy drops the event and keeps the member connected.
type TolerantPolicy struct{}

func (TolerantPolicy) OnBackPressure(*core.RoomController, *domain.PlayerSession) BackpressureAction {
	return DropFrame
}

// PolicyByName maps a config value to a policy, defaulting to SimplePolicy.
func PolicyByName(name string) Policy {
	switch name {
	case "drop":
		return TolerantPolicy{}
	default:
		return SimplePolicy{}
	}
}
