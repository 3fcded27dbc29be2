package domain

type SessionToken string

// PlayerSession binds one player to one room. The token is the only secret
// a real-time connection needs to act as that player.
// No transport or lifecycle logic here.
type PlayerSession struct {
	Player     *Player
	Token      SessionToken
	VideoToken string
}

// NewPlayerSession always mints a new token; sessions are never reused.
func NewPlayerSession(player *Player, videoToken string) *PlayerSession {
	return &PlayerSession{
		Player:     player,
		Token:      SessionToken(newSecret()),
		VideoToken: videoToken,
	}
}
