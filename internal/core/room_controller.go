package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dkeye/Town/internal/domain"
	"github.com/rs/zerolog/log"
)

type listenerEntry struct {
	listener RoomListener
	removed  atomic.Bool
}

// roomEvent is one committed change waiting to be fanned out to the
// listeners registered at commit time.
type roomEvent struct {
	entries []*listenerEntry
	deliver func(RoomListener)
}

// RoomController owns the live state of one room: roster, sessions and
// listeners. It is safe for concurrent use.
//
// Every state change queues its event in the same critical section that
// commits it, so listeners see events in commit order. Whichever caller
// finds the queue idle drains it, outside the lock; a listener may call
// back into the room and its own events are delivered right after the
// current one.
type RoomController struct {
	video TokenIssuer

	mu        sync.RWMutex
	room      domain.Room
	roster    []*domain.PlayerSession
	byToken   map[domain.SessionToken]*domain.PlayerSession
	listeners map[RoomListener]*listenerEntry
	destroyed bool

	pending  []roomEvent
	draining bool

	onDestroyed func(domain.RoomID)
}

func NewRoomController(room *domain.Room, video TokenIssuer) *RoomController {
	return &RoomController{
		video:     video,
		room:      *room,
		byToken:   make(map[domain.SessionToken]*domain.PlayerSession),
		listeners: make(map[RoomListener]*listenerEntry),
	}
}

// OnDestroyed sets a hook run once, after the room reaches its terminal state.
func (c *RoomController) OnDestroyed(fn func(domain.RoomID)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDestroyed = fn
}

func (c *RoomController) ID() domain.RoomID { return c.room.ID }

func (c *RoomController) Info() RoomInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return RoomInfo{
		ID:               c.room.ID,
		FriendlyName:     c.room.FriendlyName,
		IsPubliclyListed: c.room.IsPubliclyListed,
		PlayerCount:      len(c.roster),
	}
}

func (c *RoomController) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(c.room.Password), []byte(password)) == 1
}

// Apply overwrites the fields present in upd. Authorization is the caller's job.
func (c *RoomController) Apply(upd domain.RoomUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return domain.ErrRoomDestroyed
	}
	if upd.FriendlyName != nil {
		c.room.FriendlyName = *upd.FriendlyName
	}
	if upd.IsPubliclyListed != nil {
		c.room.IsPubliclyListed = *upd.IsPubliclyListed
	}
	log.Info().Str("module", "core.room").Str("room_id", string(c.room.ID)).Msg("room updated")
	return nil
}

func (c *RoomController) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// PlayerCount is the roster size. The roster holds one entry per session,
// so it always equals SessionCount.
func (c *RoomController) PlayerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roster)
}

func (c *RoomController) SessionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byToken)
}

// Players returns a snapshot of the roster in join order.
func (c *RoomController) Players() []domain.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Player, 0, len(c.roster))
	for _, s := range c.roster {
		out = append(out, *s.Player)
	}
	return out
}

// AddPlayer asks the video provider for a join token and, only if that
// succeeds, admits the player under a brand new session.
func (c *RoomController) AddPlayer(ctx context.Context, player *domain.Player) (*domain.PlayerSession, error) {
	if c.Destroyed() {
		return nil, domain.ErrRoomDestroyed
	}

	videoToken, err := c.video.IssueToken(ctx, c.room.ID, player.ID)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room_id", string(c.room.ID)).Str("player_id", string(player.ID)).Msg("video token request failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}

	session := domain.NewPlayerSession(player, videoToken)

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil, domain.ErrRoomDestroyed
	}
	c.byToken[session.Token] = session
	c.roster = append(c.roster, session)
	snap := *player
	c.enqueueLocked(func(l RoomListener) { l.OnPlayerJoined(snap) })
	c.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room_id", string(c.room.ID)).Str("player_id", string(player.ID)).Msg("player joined")
	c.drain()
	return session, nil
}

// UpdatePlayerLocation stores loc as is; there is no bounds checking here.
func (c *RoomController) UpdatePlayerLocation(player *domain.Player, loc domain.Location) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return domain.ErrRoomDestroyed
	}
	var snap *domain.Player
	for _, s := range c.roster {
		if s.Player.ID != player.ID {
			continue
		}
		s.Player.Location = loc
		if snap == nil {
			p := *s.Player
			snap = &p
		}
	}
	if snap == nil {
		c.mu.Unlock()
		return domain.ErrPlayerNotFound
	}
	moved := *snap
	c.enqueueLocked(func(l RoomListener) { l.OnPlayerMoved(moved) })
	c.mu.Unlock()

	c.drain()
	return nil
}

// DestroySession is a no-op for sessions that are already gone.
func (c *RoomController) DestroySession(session *domain.PlayerSession) {
	c.mu.Lock()
	if _, ok := c.byToken[session.Token]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.byToken, session.Token)
	c.roster = slices.DeleteFunc(c.roster, func(s *domain.PlayerSession) bool { return s.Token == session.Token })
	snap := *session.Player
	c.enqueueLocked(func(l RoomListener) { l.OnPlayerDisconnected(snap) })
	c.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room_id", string(c.room.ID)).Str("player_id", string(snap.ID)).Msg("session destroyed")
	c.drain()
}

// DisconnectAllPlayers drops every session at once, tells listeners the room
// is gone and moves the room to its terminal state. OnRoomDestroyed is the
// last event any listener receives.
func (c *RoomController) DisconnectAllPlayers() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return domain.ErrRoomDestroyed
	}
	c.destroyed = true
	sessions := len(c.byToken)
	c.byToken = make(map[domain.SessionToken]*domain.PlayerSession)
	c.roster = nil
	c.enqueueLocked(func(l RoomListener) { l.OnRoomDestroyed() })
	hook := c.onDestroyed
	c.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room_id", string(c.room.ID)).Int("sessions", sessions).Msg("room destroyed")
	c.drain()
	if hook != nil {
		hook(c.room.ID)
	}
	return nil
}

// AddRoomListener fails once the room is destroyed, since such a listener
// would never hear about it. A new listener only sees changes committed
// after it was added.
func (c *RoomController) AddRoomListener(l RoomListener) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return domain.ErrRoomDestroyed
	}
	if _, ok := c.listeners[l]; !ok {
		c.listeners[l] = &listenerEntry{listener: l}
	}
	return nil
}

// RemoveRoomListener takes effect for every event not yet delivered to l,
// including queued ones. Absent listeners are ignored.
func (c *RoomController) RemoveRoomListener(l RoomListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.listeners[l]; ok {
		e.removed.Store(true)
		delete(c.listeners, l)
	}
}

func (c *RoomController) SessionByToken(token domain.SessionToken) (*domain.PlayerSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byToken[token]
	return s, ok
}

func (c *RoomController) enqueueLocked(deliver func(RoomListener)) {
	if len(c.listeners) == 0 {
		return
	}
	entries := make([]*listenerEntry, 0, len(c.listeners))
	for _, e := range c.listeners {
		entries = append(entries, e)
	}
	c.pending = append(c.pending, roomEvent{entries: entries, deliver: deliver})
}

// drain delivers queued events one at a time. If another call is already
// draining, it returns at once and that call delivers the new events too.
func (c *RoomController) drain() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	for len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending[0] = roomEvent{}
		c.pending = c.pending[1:]
		c.mu.Unlock()

		log.Debug().Str("module", "core.room").Str("room_id", string(c.room.ID)).Int("listeners", len(ev.entries)).Msg("dispatch")
		for _, e := range ev.entries {
			if e.removed.Load() {
				continue
			}
			ev.deliver(e.listener)
		}

		c.mu.Lock()
	}
	c.pending = nil
	c.draining = false
	c.mu.Unlock()
}
