package app

import (
	"sync"

	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RoomManager is the process-wide directory of live rooms. The composition
// root builds one and hands it to whoever needs it.
type RoomManager struct {
	video core.TokenIssuer

	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.RoomController
}

func NewRoomManager(video core.TokenIssuer) *RoomManager {
	return &RoomManager{
		video: video,
		rooms: make(map[domain.RoomID]*core.RoomController),
	}
}

// CreateRoom always succeeds; names are neither validated nor unique here.
func (m *RoomManager) CreateRoom(friendlyName string, isPubliclyListed bool) (*core.RoomController, domain.RoomCredentials) {
	room := domain.NewRoom(friendlyName, isPubliclyListed)
	ctrl := core.NewRoomController(room, m.video)
	ctrl.OnDestroyed(m.forget)

	m.mu.Lock()
	m.rooms[room.ID] = ctrl
	m.mu.Unlock()

	log.Info().Str("module", "app.rooms").Str("room_id", string(room.ID)).Bool("public", isPubliclyListed).Msg("room created")
	return ctrl, domain.RoomCredentials{ID: room.ID, Password: room.Password}
}

func (m *RoomManager) GetRoom(id domain.RoomID) (*core.RoomController, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// ListPublic returns summaries of public rooms in no particular order.
func (m *RoomManager) ListPublic() []core.RoomInfo {
	m.mu.RLock()
	rooms := lo.Values(m.rooms)
	m.mu.RUnlock()

	return lo.FilterMap(rooms, func(r *core.RoomController, _ int) (core.RoomInfo, bool) {
		info := r.Info()
		return info, info.IsPubliclyListed && !r.Destroyed()
	})
}

// DeleteRoom unlists the room before tearing it down, so no lookup can
// return it once the password has been accepted.
func (m *RoomManager) DeleteRoom(id domain.RoomID, password string) error {
	m.mu.Lock()
	room, ok := m.rooms[id]
	if !ok {
		m.mu.Unlock()
		return domain.ErrRoomNotFound
	}
	if !room.CheckPassword(password) {
		m.mu.Unlock()
		log.Warn().Str("module", "app.rooms").Str("room_id", string(id)).Msg("delete rejected: bad password")
		return domain.ErrInvalidPassword
	}
	delete(m.rooms, id)
	m.mu.Unlock()

	if err := room.DisconnectAllPlayers(); err != nil {
		log.Warn().Err(err).Str("module", "app.rooms").Str("room_id", string(id)).Msg("room already destroyed")
	}
	log.Info().Str("module", "app.rooms").Str("room_id", string(id)).Msg("room deleted")
	return nil
}

// UpdateRoom checks the password before applying any field.
func (m *RoomManager) UpdateRoom(id domain.RoomID, password string, upd domain.RoomUpdate) error {
	room, ok := m.GetRoom(id)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.CheckPassword(password) {
		log.Warn().Str("module", "app.rooms").Str("room_id", string(id)).Msg("update rejected: bad password")
		return domain.ErrInvalidPassword
	}
	if err := room.Apply(upd); err != nil {
		// Destroyed between lookup and apply: it is gone as far as callers care.
		return domain.ErrRoomNotFound
	}
	return nil
}

// Count is the number of live rooms, listed or not.
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

func (m *RoomManager) forget(id domain.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}
