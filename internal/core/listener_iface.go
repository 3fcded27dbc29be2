package core

import "github.com/dkeye/Town/internal/domain"

//go:generate go run go.uber.org/mock/mockgen -source=listener_iface.go -destination=../mocks/mock_room_listener.go -package=mocks

// RoomListener observes one room. Callbacks receive value snapshots taken
// while the room state was consistent.
//
// Implementations are used as map keys and must be comparable; use pointers.
type RoomListener interface {
	OnPlayerJoined(player domain.Player)
	OnPlayerMoved(player domain.Player)
	OnPlayerDisconnected(player domain.Player)
	OnRoomDestroyed()
}

// RoomInfo is a read-only view for APIs (no password, no sessions).
type RoomInfo struct {
	ID               domain.RoomID `json:"coveyRoomID"`
	FriendlyName     string        `json:"friendlyName"`
	IsPubliclyListed bool          `json:"-"`
	PlayerCount      int           `json:"currentOccupancy"`
}
