package domain

import (
	"strings"

	"github.com/google/uuid"
)

type RoomID string

// Room is the mutable metadata of a room. The roster lives in the room's
// controller, not here.
type Room struct {
	ID               RoomID
	FriendlyName     string
	Password         string
	IsPubliclyListed bool
}

// NewRoom generates the id and password. The name is taken as is.
func NewRoom(friendlyName string, isPubliclyListed bool) *Room {
	return &Room{
		ID:               RoomID(uuid.NewString()),
		FriendlyName:     friendlyName,
		Password:         newSecret(),
		IsPubliclyListed: isPubliclyListed,
	}
}

// RoomCredentials is what the creator of a room gets back, and nobody else.
type RoomCredentials struct {
	ID       RoomID `json:"coveyRoomID"`
	Password string `json:"coveyRoomPassword"`
}

// RoomUpdate carries optional field changes; nil means leave unchanged.
type RoomUpdate struct {
	FriendlyName     *string
	IsPubliclyListed *bool
}

func newSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
