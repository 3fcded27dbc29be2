// Package video issues join credentials for the external video provider.
package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var ErrMissingCredentials = errors.New("video: missing provider credentials")

const defaultTTL = time.Hour

type VideoGrant struct {
	Room string `json:"room,omitempty"`
}

type Grants struct {
	Identity string      `json:"identity"`
	Video    *VideoGrant `json:"video,omitempty"`
}

// AccessClaims is the payload of a Twilio access token.
type AccessClaims struct {
	Grants Grants `json:"grants"`
	jwt.RegisteredClaims
}

// TwilioIssuer signs access tokens locally with an API key; no network call
// is needed to mint them.
type TwilioIssuer struct {
	accountSID string
	apiKeySID  string
	apiSecret  []byte
	ttl        time.Duration
	now        func() time.Time
}

var _ core.TokenIssuer = (*TwilioIssuer)(nil)

func NewTwilioIssuer(accountSID, apiKeySID, apiSecret string, ttl time.Duration) (*TwilioIssuer, error) {
	if accountSID == "" || apiKeySID == "" || apiSecret == "" {
		return nil, ErrMissingCredentials
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TwilioIssuer{
		accountSID: accountSID,
		apiKeySID:  apiKeySID,
		apiSecret:  []byte(apiSecret),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (t *TwilioIssuer) IssueToken(ctx context.Context, roomID domain.RoomID, playerID domain.PlayerID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := t.now()
	claims := AccessClaims{
		Grants: Grants{
			Identity: string(playerID),
			Video:    &VideoGrant{Room: string(roomID)},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", t.apiKeySID, now.Unix()),
			Issuer:    t.apiKeySID,
			Subject:   t.accountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = "twilio-fpa;v=1"

	signed, err := token.SignedString(t.apiSecret)
	if err != nil {
		return "", fmt.Errorf("sign video token: %w", err)
	}
	log.Debug().Str("module", "adapters.video").Str("room_id", string(roomID)).Str("player_id", string(playerID)).Msg("video token issued")
	return signed, nil
}
