package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gobblet-backend/internal/apperror"
)

// PiecesPerSize is how many pieces of each size a player starts with.
const PiecesPerSize = 2

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Inventory counts the unplaced pieces of one player by size.
type Inventory map[Size]int

func NewInventory() Inventory {
	inventory := make(Inventory, len(Sizes))
	for _, size := range Sizes {
		inventory[size] = PiecesPerSize
	}
	return inventory
}

func (that Inventory) Remaining(size Size) int {
	return that[size]
}

func (that Inventory) Clone() Inventory {
	inventory := make(Inventory, len(that))
	for size, count := range that {
		inventory[size] = count
	}
	return inventory
}

// GameState is the full observable state of one game.
type GameState struct {
	Board     Board                `json:"board"`
	Inventory map[Player]Inventory `json:"inventory"`
	Turn      Player               `json:"player_turn"`
	Status    string               `json:"status"`
	Winner    Player               `json:"winner,omitempty"`
}

// NewGameState - empty board, full inventories, A to move.
func NewGameState() GameState {
	return GameState{
		Inventory: map[Player]Inventory{
			PlayerA: NewInventory(),
			PlayerB: NewInventory(),
		},
		Turn:   PlayerA,
		Status: StatusOngoing,
	}
}

// Clone - deep copy safe to hand out to readers.
func (that *GameState) Clone() GameState {
	state := *that
	state.Board = that.Board.Clone()
	state.Inventory = make(map[Player]Inventory, len(that.Inventory))
	for player, inventory := range that.Inventory {
		state.Inventory[player] = inventory.Clone()
	}
	return state
}

// Game is a table's current state as seen by the transports.
type Game struct {
	ID string `json:"id"`
	GameState
}

func (that *GameState) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *GameState) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *GameState) ConfirmOngoingState() error {
	switch {
	case that.IsOngoing():
		return nil
	case that.IsFinished():
		return apperror.ErrGameAlreadyOver
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
