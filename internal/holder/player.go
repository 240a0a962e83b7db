package holder

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoPlayer is returned when a player holder is constructed from a nil
// player identity.
var ErrNoPlayer = errors.New("holder: nil player")

// Player is the live or offline player identity supplied by the hosting game
// server.
type Player interface {
	UUID() uuid.UUID
	Name() string
	Online() bool
	SendMessage(msg string)
	HasPermission(perm string) bool
}

// PlayerHolder backs an account with a player identity.
type PlayerHolder struct {
	player Player
}

// NewPlayerHolder wraps a player identity. The player must not be nil.
func NewPlayerHolder(p Player) (PlayerHolder, error) {
	if p == nil {
		return PlayerHolder{}, ErrNoPlayer
	}

	return PlayerHolder{player: p}, nil
}

func (h PlayerHolder) ID() string   { return h.player.UUID().String() }
func (h PlayerHolder) Type() string { return TypePlayer }
func (h PlayerHolder) Name() string { return h.player.Name() }

// SendMessage delivers the message if the player is currently online.
func (h PlayerHolder) SendMessage(msg string) {
	if h.player.Online() {
		h.player.SendMessage(msg)
	}
}

// HasPermission is false for offline players; permission state only exists
// for a live session.
func (h PlayerHolder) HasPermission(perm string) bool {
	if !h.player.Online() {
		return false
	}

	return h.player.HasPermission(perm)
}

func (h PlayerHolder) String() string {
	return fmt.Sprintf("PlayerHolder(%s)", h.Name())
}
