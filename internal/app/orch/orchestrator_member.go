package orch

import (
	"context"

	"github.com/dkeye/Town/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinResult is everything a client needs to open its real-time connection
// and its video call.
type JoinResult struct {
	PlayerID         domain.PlayerID     `json:"coveyUserID"`
	SessionToken     domain.SessionToken `json:"coveySessionToken"`
	VideoToken       string              `json:"providerVideoToken"`
	CurrentPlayers   []domain.Player     `json:"currentPlayers"`
	FriendlyName     string              `json:"friendlyName"`
	IsPubliclyListed bool                `json:"isPubliclyListed"`
}

// JoinRoom admits a new player to a public or private room.
func (o *Orchestrator) JoinRoom(ctx context.Context, userName string, roomID domain.RoomID) (*JoinResult, error) {
	player, err := domain.NewPlayer(userName)
	if err != nil {
		return nil, err
	}
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	session, err := room.AddPlayer(ctx, player)
	if err != nil {
		return nil, err
	}
	info := room.Info()
	log.Info().Str("module", "app.orch").Str("room_id", string(roomID)).Str("player_id", string(player.ID)).Msg("player admitted")
	return &JoinResult{
		PlayerID:         player.ID,
		SessionToken:     session.Token,
		VideoToken:       session.VideoToken,
		CurrentPlayers:   room.Players(),
		FriendlyName:     info.FriendlyName,
		IsPubliclyListed: info.IsPubliclyListed,
	}, nil
}
