package video

import (
	"context"

	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/google/uuid"
)

// DevIssuer hands out opaque tokens no provider will accept. It keeps the
// server usable locally when no credentials are configured.
type DevIssuer struct{}

var _ core.TokenIssuer = DevIssuer{}

func (DevIssuer) IssueToken(ctx context.Context, roomID domain.RoomID, playerID domain.PlayerID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "dev-" + uuid.NewString(), nil
}
