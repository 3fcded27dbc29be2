package signal

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Town/internal/app"
	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	EventNewPlayer        = "newPlayer"
	EventPlayerMoved      = "playerMoved"
	EventPlayerDisconnect = "playerDisconnect"
	EventRoomClosing      = "roomClosing"
	EventPlayerMovement   = "playerMovement"
	EventPing             = "ping"
	EventPong             = "pong"
)

type RoomLookup interface {
	GetRoom(id domain.RoomID) (*core.RoomController, bool)
}

// Subscribe authenticates conn against the room and session it claims. On
// success it forwards room events to conn and conn events to the room until
// conn goes away; otherwise it disconnects conn and registers nothing.
func (ctl *SignalWSController) Subscribe(conn Conn) bool {
	hs := conn.Handshake()
	logger := log.With().Str("module", "signal").Str("room_id", string(hs.RoomID)).Logger()

	room, ok := ctl.Rooms.GetRoom(hs.RoomID)
	if !ok {
		logger.Warn().Msg("rejected: unknown room")
		conn.Disconnect()
		return false
	}
	session, ok := room.SessionByToken(hs.Token)
	if !ok {
		logger.Warn().Msg("rejected: unknown session")
		conn.Disconnect()
		return false
	}
	player := session.Player
	logger = logger.With().Str("player_id", string(player.ID)).Logger()

	listener := &roomListener{conn: conn, room: room, session: session, policy: ctl.Policy}

	conn.On(EventPlayerMovement, func(data json.RawMessage) {
		var loc domain.Location
		if err := json.Unmarshal(data, &loc); err != nil || !loc.Rotation.Valid() {
			logger.Warn().Err(err).Msg("bad movement payload")
			return
		}
		if err := room.UpdatePlayerLocation(player, loc); err != nil {
			logger.Warn().Err(err).Msg("movement not applied")
		}
	})
	conn.OnDisconnect(func() {
		room.DestroySession(session)
		room.RemoveRoomListener(listener)
		logger.Info().Msg("connection closed")
	})

	if err := room.AddRoomListener(listener); err != nil {
		logger.Warn().Err(err).Msg("rejected: room closing")
		room.DestroySession(session)
		conn.Disconnect()
		return false
	}
	logger.Info().Msg("subscribed")
	return true
}

// roomListener turns room events into outbound messages on one connection.
type roomListener struct {
	conn    Conn
	room    *core.RoomController
	session *domain.PlayerSession
	policy  app.Policy
}

func (l *roomListener) OnPlayerJoined(p domain.Player) { l.emit(EventNewPlayer, p) }

func (l *roomListener) OnPlayerMoved(p domain.Player) { l.emit(EventPlayerMoved, p) }

func (l *roomListener) OnPlayerDisconnected(p domain.Player) { l.emit(EventPlayerDisconnect, p) }

func (l *roomListener) OnRoomDestroyed() {
	l.emit(EventRoomClosing, nil)
	l.conn.Disconnect()
}

func (l *roomListener) emit(event string, payload any) {
	err := l.conn.Emit(event, payload)
	switch {
	case err == nil:
	case errors.Is(err, ErrBackpressure):
		switch l.policy.OnBackPressure(l.room, l.session) {
		case app.KickMember:
			log.Warn().Str("module", "signal").Str("player_id", string(l.session.Player.ID)).Msg("slow consumer kicked")
			l.conn.Disconnect()
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "signal").Str("event", event).Msg("event dropped")
		}
	default:
		log.Debug().Err(err).Str("module", "signal").Str("event", event).Msg("emit failed")
	}
}
