package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Player is one of the two sides. How a side is drawn (×/○, x/o) is up to the presentation layer.
type Player string

const (
	PlayerA Player = "A"
	PlayerB Player = "B"
)

var ErrInvalidPlayer = errors.New("invalid player")

// Players lists both sides in turn order.
var Players = [2]Player{PlayerA, PlayerB}

// ParsePlayer - parses "A"/"B" in any case.
func ParsePlayer(raw string) (Player, error) {
	player := Player(strings.ToUpper(strings.TrimSpace(raw)))
	if !player.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlayer, raw)
	}

	return player, nil
}

func (that Player) IsValid() bool {
	return that == PlayerA || that == PlayerB
}

// Opponent - returns the other side.
func (that Player) Opponent() Player {
	if that == PlayerA {
		return PlayerB
	}
	return PlayerA
}
