// Package domain contains entity without logic, just meta-data
package domain

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const MaxUsernameLen = 36

type PlayerID string

type Direction string

const (
	DirectionFront Direction = "front"
	DirectionBack  Direction = "back"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) Valid() bool {
	switch d {
	case DirectionFront, DirectionBack, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Direction(s).Valid() {
		return ErrInvalidDirection
	}
	*d = Direction(s)
	return nil
}

// Location is the last position a player reported.
type Location struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Rotation Direction `json:"rotation"`
	Moving   bool      `json:"moving"`
}

type Player struct {
	ID       PlayerID `json:"id"`
	UserName string   `json:"userName"`
	Location Location `json:"location"`
}

// NewPlayer mints a player with a fresh id. Names are not unique.
func NewPlayer(userName string) (*Player, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, ErrUsernameEmpty
	}
	if len(userName) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &Player{
		ID:       PlayerID(uuid.NewString()),
		UserName: userName,
		Location: Location{Rotation: DirectionFront},
	}, nil
}
