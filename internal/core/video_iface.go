package core

import (
	"context"

	"github.com/dkeye/Town/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=video_iface.go -destination=../mocks/mock_token_issuer.go -package=mocks

// TokenIssuer grants a participant access to the video call of a room.
// Implementations talk to an external provider; the room never retries.
type TokenIssuer interface {
	IssueToken(ctx context.Context, roomID domain.RoomID, playerID domain.PlayerID) (string, error)
}
