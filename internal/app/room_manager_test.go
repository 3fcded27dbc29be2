package app

import (
	"context"
	"testing"

	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/dkeye/Town/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestManager(t *testing.T) (*RoomManager, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	video := mocks.NewMockTokenIssuer(ctrl)
	video.EXPECT().IssueToken(gomock.Any(), gomock.Any(), gomock.Any()).Return("video", nil).AnyTimes()
	return NewRoomManager(video), ctrl
}

func listedIDs(m *RoomManager) []domain.RoomID {
	var ids []domain.RoomID
	for _, info := range m.ListPublic() {
		ids = append(ids, info.ID)
	}
	return ids
}

func TestRoomManager_CreateRoom(t *testing.T) {
	req := require.New(t)
	m, _ := newTestManager(t)

	first, firstCreds := m.CreateRoom("Alamo", true)
	second, secondCreds := m.CreateRoom("Alamo", true)
	blank, _ := m.CreateRoom("", false)

	req.NotEqual(firstCreds.ID, secondCreds.ID)
	req.Equal(first.ID(), firstCreds.ID)
	req.NotEmpty(firstCreds.Password)
	req.Equal(3, m.Count())

	got, ok := m.GetRoom(second.ID())
	req.True(ok)
	req.Same(second, got)
	req.Equal("", blank.Info().FriendlyName)

	_, ok = m.GetRoom("missing")
	req.False(ok)
}

func TestRoomManager_ListPublic(t *testing.T) {
	req := require.New(t)
	m, _ := newTestManager(t)

	public, _ := m.CreateRoom("public", true)
	private, _ := m.CreateRoom("private", false)
	twin, _ := m.CreateRoom("public", true)

	_, err := public.AddPlayer(context.Background(), &domain.Player{ID: "p1", UserName: "one"})
	req.NoError(err)

	req.ElementsMatch([]domain.RoomID{public.ID(), twin.ID()}, listedIDs(m))
	req.NotContains(listedIDs(m), private.ID())

	for _, info := range m.ListPublic() {
		if info.ID == public.ID() {
			req.Equal(1, info.PlayerCount)
			req.Equal("public", info.FriendlyName)
		}
	}

	// Private rooms stay joinable, they just do not enumerate.
	_, err = private.AddPlayer(context.Background(), &domain.Player{ID: "p2", UserName: "two"})
	req.NoError(err)
}

func TestRoomManager_DeleteRoom(t *testing.T) {
	t.Run("should fail for unknown rooms", func(t *testing.T) {
		m, _ := newTestManager(t)
		require.ErrorIs(t, m.DeleteRoom("nope", "pw"), domain.ErrRoomNotFound)
	})

	t.Run("should leave the room intact on a bad password", func(t *testing.T) {
		req := require.New(t)
		m, ctrl := newTestManager(t)
		room, creds := m.CreateRoom("keep me", true)
		session, err := room.AddPlayer(context.Background(), &domain.Player{ID: "p", UserName: "p"})
		req.NoError(err)
		listener := mocks.NewMockRoomListener(ctrl)
		req.NoError(room.AddRoomListener(listener))

		err = m.DeleteRoom(creds.ID, creds.Password+"nope")

		req.ErrorIs(err, domain.ErrInvalidPassword)
		req.ErrorIs(err, domain.ErrUnauthorized)
		req.False(room.Destroyed())
		req.Contains(listedIDs(m), creds.ID)
		_, ok := room.SessionByToken(session.Token)
		req.True(ok)
	})

	t.Run("should destroy, unlist and forget the room", func(t *testing.T) {
		req := require.New(t)
		m, ctrl := newTestManager(t)
		room, creds := m.CreateRoom("doomed", true)
		session, err := room.AddPlayer(context.Background(), &domain.Player{ID: "p", UserName: "p"})
		req.NoError(err)

		listener := mocks.NewMockRoomListener(ctrl)
		listener.EXPECT().OnRoomDestroyed().Do(func() {
			// Already unlisted by the time listeners hear about it.
			_, ok := m.GetRoom(creds.ID)
			req.False(ok)
		}).Times(1)
		req.NoError(room.AddRoomListener(listener))

		req.NoError(m.DeleteRoom(creds.ID, creds.Password))

		req.True(room.Destroyed())
		req.NotContains(listedIDs(m), creds.ID)
		_, ok := room.SessionByToken(session.Token)
		req.False(ok)
		req.ErrorIs(m.DeleteRoom(creds.ID, creds.Password), domain.ErrRoomNotFound)
		_, err = room.AddPlayer(context.Background(), &domain.Player{ID: "q", UserName: "q"})
		req.ErrorIs(err, domain.ErrRoomDestroyed)
	})

	t.Run("should forget rooms destroyed directly on the controller", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t)
		room, creds := m.CreateRoom("closing", true)

		req.NoError(room.DisconnectAllPlayers())

		_, ok := m.GetRoom(creds.ID)
		req.False(ok)
		req.Empty(m.ListPublic())
	})
}

func TestRoomManager_UpdateRoom(t *testing.T) {
	name := func(s string) *string { return &s }
	flag := func(b bool) *bool { return &b }

	t.Run("should check the password before applying anything", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t)
		room, creds := m.CreateRoom("original", true)

		err := m.UpdateRoom(creds.ID, "wrong", domain.RoomUpdate{FriendlyName: name("hacked"), IsPubliclyListed: flag(false)})
		req.ErrorIs(err, domain.ErrInvalidPassword)

		// Even an update that would be a no-op is refused.
		err = m.UpdateRoom(creds.ID, "wrong", domain.RoomUpdate{IsPubliclyListed: flag(true)})
		req.ErrorIs(err, domain.ErrInvalidPassword)

		info := room.Info()
		req.Equal("original", info.FriendlyName)
		req.True(info.IsPubliclyListed)
	})

	t.Run("should fail for unknown rooms", func(t *testing.T) {
		m, _ := newTestManager(t)
		err := m.UpdateRoom("missing", "pw", domain.RoomUpdate{FriendlyName: name("x")})
		require.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("should update name and visibility", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t)
		room, creds := m.CreateRoom("original", true)

		req.NoError(m.UpdateRoom(creds.ID, creds.Password, domain.RoomUpdate{FriendlyName: name("renamed"), IsPubliclyListed: flag(false)}))

		req.Equal(core.RoomInfo{ID: creds.ID, FriendlyName: "renamed", IsPubliclyListed: false}, room.Info())
		req.Empty(m.ListPublic())
	})

	t.Run("should leave visibility alone when omitted", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t)
		room, creds := m.CreateRoom("original", false)

		req.NoError(m.UpdateRoom(creds.ID, creds.Password, domain.RoomUpdate{FriendlyName: name("renamed")}))
		req.False(room.Info().IsPubliclyListed)

		req.NoError(m.UpdateRoom(creds.ID, creds.Password, domain.RoomUpdate{IsPubliclyListed: flag(true)}))
		info := room.Info()
		req.True(info.IsPubliclyListed)
		req.Equal("renamed", info.FriendlyName)
	})
}

func TestPolicyByName(t *testing.T) {
	require.Equal(t, KickMember, PolicyByName("kick").OnBackPressure(nil, nil))
	require.Equal(t, KickMember, PolicyByName("").OnBackPressure(nil, nil))
	require.Equal(t, DropFrame, PolicyByName("drop").OnBackPressure(nil, nil))
}
