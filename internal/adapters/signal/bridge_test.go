package signal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/Town/internal/adapters/video"
	"github.com/dkeye/Town/internal/app"
	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/stretchr/testify/require"
)

var location = domain.Location{X: 100, Y: 100, Rotation: domain.DirectionFront, Moving: true}

type emitted struct {
	event   string
	payload any
}

// fakeConn records everything the bridge does to a connection.
type fakeConn struct {
	hs      Handshake
	emitErr error

	mu           sync.Mutex
	emitted      []emitted
	handlers     map[string]func(json.RawMessage)
	onDisconnect []func()
	disconnects  int
}

func newFakeConn(roomID domain.RoomID, token domain.SessionToken) *fakeConn {
	return &fakeConn{
		hs:       Handshake{RoomID: roomID, Token: token},
		handlers: make(map[string]func(json.RawMessage)),
	}
}

func (f *fakeConn) Handshake() Handshake { return f.hs }

func (f *fakeConn) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emitted = append(f.emitted, emitted{event: event, payload: payload})
	return nil
}

func (f *fakeConn) On(event string, fn func(json.RawMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = fn
}

func (f *fakeConn) OnDisconnect(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onDisconnect = append(f.onDisconnect, fn)
}

func (f *fakeConn) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
}

// closeFromClient simulates the socket going away.
func (f *fakeConn) closeFromClient() {
	f.mu.Lock()
	fns := append([]func(){}, f.onDisconnect...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeConn) receive(event string, payload any) {
	b, _ := json.Marshal(payload)
	f.mu.Lock()
	fn := f.handlers[event]
	f.mu.Unlock()
	if fn != nil {
		fn(b)
	}
}

func (f *fakeConn) sawEvent(event string, payload any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.emitted {
		if e.event == event && e.payload == payload {
			return true
		}
	}
	return false
}

func (f *fakeConn) emitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emitted)
}

func (f *fakeConn) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnects
}

type bridgeFixture struct {
	rooms *app.RoomManager
	room  *core.RoomController
	ctl   *SignalWSController
}

func newBridgeFixture(t *testing.T, policy app.Policy) *bridgeFixture {
	t.Helper()
	rooms := app.NewRoomManager(video.DevIssuer{})
	room, _ := rooms.CreateRoom("connectPlayerSocket tests", false)
	return &bridgeFixture{
		rooms: rooms,
		room:  room,
		ctl:   NewSignalWSController(rooms, policy, DefaultOptions()),
	}
}

func (fx *bridgeFixture) join(t *testing.T, name string) *domain.PlayerSession {
	t.Helper()
	p, err := domain.NewPlayer(name)
	require.NoError(t, err)
	s, err := fx.room.AddPlayer(context.Background(), p)
	require.NoError(t, err)
	return s
}

func TestSubscribe_Rejects(t *testing.T) {
	t.Run("invalid room ids", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, nil)
		session := fx.join(t, "masterchief")
		conn := newFakeConn("Wrong ID", session.Token)

		req.False(fx.ctl.Subscribe(conn))

		req.Equal(1, conn.disconnectCount())
		fx.join(t, "someone")
		req.Zero(conn.emitCount())
	})

	t.Run("invalid session tokens", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, nil)
		fx.join(t, "masterchief")
		conn := newFakeConn(fx.room.ID(), "bad")

		req.False(fx.ctl.Subscribe(conn))

		req.Equal(1, conn.disconnectCount())
		fx.join(t, "someone")
		req.Zero(conn.emitCount())
	})

	t.Run("tokens of another room", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, nil)
		other, _ := fx.rooms.CreateRoom("other", true)
		p, err := domain.NewPlayer("elsewhere")
		req.NoError(err)
		foreign, err := other.AddPlayer(context.Background(), p)
		req.NoError(err)

		conn := newFakeConn(fx.room.ID(), foreign.Token)
		req.False(fx.ctl.Subscribe(conn))
		req.Equal(1, conn.disconnectCount())
	})
}

func TestSubscribe_ForwardsRoomEvents(t *testing.T) {
	setup := func(t *testing.T) (*bridgeFixture, *fakeConn, *domain.PlayerSession, *domain.PlayerSession) {
		fx := newBridgeFixture(t, nil)
		session := fx.join(t, "test player")
		second := fx.join(t, "newPlayer")
		conn := newFakeConn(fx.room.ID(), session.Token)
		require.True(t, fx.ctl.Subscribe(conn))
		return fx, conn, session, second
	}

	t.Run("newPlayer when a player joins", func(t *testing.T) {
		fx, conn, _, _ := setup(t)
		joined := fx.join(t, "newPlayer")
		require.True(t, conn.sawEvent(EventNewPlayer, *joined.Player))
	})

	t.Run("playerMoved when a player moves", func(t *testing.T) {
		req := require.New(t)
		fx, conn, session, second := setup(t)

		req.NoError(fx.room.UpdatePlayerLocation(session.Player, location))
		req.True(conn.sawEvent(EventPlayerMoved, domain.Player{ID: session.Player.ID, UserName: session.Player.UserName, Location: location}))

		req.NoError(fx.room.UpdatePlayerLocation(second.Player, location))
		req.True(conn.sawEvent(EventPlayerMoved, domain.Player{ID: second.Player.ID, UserName: second.Player.UserName, Location: location}))
	})

	t.Run("playerDisconnect when a player disconnects", func(t *testing.T) {
		req := require.New(t)
		fx, conn, session, second := setup(t)

		fx.room.DestroySession(second)
		req.True(conn.sawEvent(EventPlayerDisconnect, *second.Player))
		fx.room.DestroySession(session)
		req.True(conn.sawEvent(EventPlayerDisconnect, *session.Player))
	})

	t.Run("roomClosing then disconnect when the room is destroyed", func(t *testing.T) {
		req := require.New(t)
		fx, conn, _, _ := setup(t)

		req.NoError(fx.room.DisconnectAllPlayers())

		req.True(conn.sawEvent(EventRoomClosing, nil))
		req.Equal(1, conn.disconnectCount())
	})

	t.Run("inbound playerMovement moves this connection's player", func(t *testing.T) {
		req := require.New(t)
		_, conn, session, _ := setup(t)

		conn.receive(EventPlayerMovement, location)

		req.True(conn.sawEvent(EventPlayerMoved, domain.Player{ID: session.Player.ID, UserName: session.Player.UserName, Location: location}))
	})

	t.Run("malformed movement is dropped", func(t *testing.T) {
		req := require.New(t)
		fx, conn, session, _ := setup(t)
		before := conn.emitCount()

		conn.receive(EventPlayerMovement, map[string]any{"x": 1, "y": 2, "rotation": "sideways"})
		conn.receive(EventPlayerMovement, "not a location")

		req.Equal(before, conn.emitCount())
		p, ok := fx.room.SessionByToken(session.Token)
		req.True(ok)
		req.Equal(domain.DirectionFront, p.Player.Location.Rotation)
	})
}

func TestSubscribe_SocketDisconnect(t *testing.T) {
	req := require.New(t)
	fx := newBridgeFixture(t, nil)
	session := fx.join(t, "test player")
	second := fx.join(t, "newPlayer")
	conn := newFakeConn(fx.room.ID(), session.Token)
	req.True(fx.ctl.Subscribe(conn))

	conn.closeFromClient()
	// Teardown triggers may race; a repeat is harmless.
	conn.closeFromClient()

	_, ok := fx.room.SessionByToken(session.Token)
	req.False(ok)

	before := conn.emitCount()
	third := fx.join(t, "Third")
	req.NoError(fx.room.UpdatePlayerLocation(third.Player, location))
	fx.room.DestroySession(second)
	req.NoError(fx.room.DisconnectAllPlayers())

	req.Equal(before, conn.emitCount())
	req.False(conn.sawEvent(EventRoomClosing, nil))
}

func TestSubscribe_IndependentConnections(t *testing.T) {
	req := require.New(t)
	fx := newBridgeFixture(t, nil)
	a := fx.join(t, "a")
	b := fx.join(t, "b")
	connA := newFakeConn(fx.room.ID(), a.Token)
	connB := newFakeConn(fx.room.ID(), b.Token)
	req.True(fx.ctl.Subscribe(connA))
	req.True(fx.ctl.Subscribe(connB))

	connA.closeFromClient()
	beforeA := connA.emitCount()

	req.NoError(fx.room.UpdatePlayerLocation(b.Player, location))

	req.Equal(beforeA, connA.emitCount())
	req.True(connB.sawEvent(EventPlayerMoved, domain.Player{ID: b.Player.ID, UserName: b.Player.UserName, Location: location}))
	req.True(connB.sawEvent(EventPlayerDisconnect, *a.Player))
}

func TestSubscribe_Backpressure(t *testing.T) {
	t.Run("kicks slow consumers by default", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, app.SimplePolicy{})
		session := fx.join(t, "slow")
		conn := newFakeConn(fx.room.ID(), session.Token)
		req.True(fx.ctl.Subscribe(conn))
		conn.emitErr = ErrBackpressure

		fx.join(t, "other")

		req.Equal(1, conn.disconnectCount())
	})

	t.Run("drops events under the tolerant policy", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, app.TolerantPolicy{})
		session := fx.join(t, "slow")
		conn := newFakeConn(fx.room.ID(), session.Token)
		req.True(fx.ctl.Subscribe(conn))
		conn.emitErr = ErrBackpressure

		fx.join(t, "other")

		req.Zero(conn.disconnectCount())
	})

	t.Run("ignores closed connections", func(t *testing.T) {
		req := require.New(t)
		fx := newBridgeFixture(t, app.SimplePolicy{})
		session := fx.join(t, "gone")
		conn := newFakeConn(fx.room.ID(), session.Token)
		req.True(fx.ctl.Subscribe(conn))
		conn.emitErr = ErrConnClosed

		fx.join(t, "other")

		req.Zero(conn.disconnectCount())
	})
}

func TestSubscribe_DestroyedRoom(t *testing.T) {
	req := require.New(t)
	fx := newBridgeFixture(t, nil)
	session := fx.join(t, "late")
	conn := newFakeConn(fx.room.ID(), session.Token)
	req.NoError(fx.room.DisconnectAllPlayers())

	req.False(fx.ctl.Subscribe(conn))
	req.Equal(1, conn.disconnectCount())
}
