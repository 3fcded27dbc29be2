package orch

import (
	"strings"

	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) CreateRoom(friendlyName string, isPubliclyListed bool) (domain.RoomCredentials, error) {
	if strings.TrimSpace(friendlyName) == "" {
		return domain.RoomCredentials{}, domain.ErrFriendlyNameEmpty
	}
	_, creds := o.Rooms.CreateRoom(friendlyName, isPubliclyListed)
	return creds, nil
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	return o.Rooms.ListPublic()
}

func (o *Orchestrator) DeleteRoom(id domain.RoomID, password string) error {
	return o.Rooms.DeleteRoom(id, password)
}

// UpdateRoom rejects an explicit blank name up front; nothing is applied
// unless the whole request is acceptable.
func (o *Orchestrator) UpdateRoom(id domain.RoomID, password string, upd domain.RoomUpdate) error {
	if upd.FriendlyName != nil && strings.TrimSpace(*upd.FriendlyName) == "" {
		return domain.ErrFriendlyNameEmpty
	}
	if err := o.Rooms.UpdateRoom(id, password, upd); err != nil {
		return err
	}
	log.Info().Str("module", "app.orch").Str("room_id", string(id)).Msg("room update accepted")
	return nil
}
