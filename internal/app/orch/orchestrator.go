package orch

import (
	"github.com/dkeye/Town/internal/app"
	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
)

// Rooms is the part of the room directory the orchestrator needs.
type Rooms interface {
	CreateRoom(friendlyName string, isPubliclyListed bool) (*core.RoomController, domain.RoomCredentials)
	GetRoom(id domain.RoomID) (*core.RoomController, bool)
	ListPublic() []core.RoomInfo
	DeleteRoom(id domain.RoomID, password string) error
	UpdateRoom(id domain.RoomID, password string, upd domain.RoomUpdate) error
}

var _ Rooms = (*app.RoomManager)(nil)

// Orchestrator is the request-facing service: it validates caller input and
// drives the room directory and room controllers.
type Orchestrator struct {
	Rooms Rooms
}
