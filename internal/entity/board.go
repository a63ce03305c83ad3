package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

const BoardSize = 9

var (
	ErrInvalidCell = errors.New("invalid cell index")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// ValidCell - checks that the index addresses one of the nine cells.
func ValidCell(index int) error {
	if index < 0 || index >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}
	return nil
}

// Cell is a stack of pieces, bottom first. Only the top is reachable for mutation.
type Cell struct {
	stack []Piece
}

func (that *Cell) Push(piece Piece) {
	that.stack = append(that.stack, piece)
}

// Pop - removes the top piece. Returns false on an empty cell.
func (that *Cell) Pop() (Piece, bool) {
	top, ok := that.Top()
	if !ok {
		return Piece{}, false
	}

	that.stack = that.stack[:len(that.stack)-1]
	if len(that.stack) == 0 {
		that.stack = nil
	}

	return top, true
}

func (that Cell) Top() (Piece, bool) {
	if len(that.stack) == 0 {
		return Piece{}, false
	}
	return that.stack[len(that.stack)-1], true
}

func (that Cell) IsEmpty() bool {
	return len(that.stack) == 0
}

func (that Cell) Height() int {
	return len(that.stack)
}

// Pieces - returns a copy of the stack, bottom first.
func (that Cell) Pieces() []Piece {
	if len(that.stack) == 0 {
		return nil
	}

	pieces := make([]Piece, len(that.stack))
	copy(pieces, that.stack)

	return pieces
}

func (that Cell) clone() Cell {
	return Cell{stack: that.Pieces()}
}

func (that Cell) MarshalJSON() ([]byte, error) {
	pieces := that.stack
	if pieces == nil {
		pieces = []Piece{}
	}
	return json.Marshal(pieces)
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var pieces []Piece
	if err := json.Unmarshal(data, &pieces); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	that.stack = nil
	for _, piece := range pieces {
		that.Push(piece)
	}

	return nil
}

// Board holds the nine cells in row-major order.
type Board [BoardSize]Cell

// Clone - deep copy, no stack is shared with the original.
func (that *Board) Clone() Board {
	var board Board
	for i := range that {
		board[i] = that[i].clone()
	}
	return board
}

// Top - top piece of the cell, the index must be valid.
func (that *Board) Top(index int) (Piece, bool) {
	return that[index].Top()
}

func (that *Board) IsFull() bool {
	for i := range that {
		if that[i].IsEmpty() {
			return false
		}
	}
	return true
}

// Count - number of pieces of the owner and size anywhere on the board, buried ones included.
func (that *Board) Count(owner Player, size Size) int {
	count := 0
	for i := range that {
		for _, piece := range that[i].stack {
			if piece.Owner == owner && piece.Size == size {
				count++
			}
		}
	}
	return count
}

// LineOwnedBy - reports whether the player owns the top of every cell in some line.
func (that *Board) LineOwnedBy(player Player) bool {
	for _, combo := range WinCombos {
		if that.ownsCell(player, combo[0]) && that.ownsCell(player, combo[1]) && that.ownsCell(player, combo[2]) {
			return true
		}
	}
	return false
}

func (that *Board) ownsCell(player Player, index int) bool {
	top, ok := that[index].Top()
	return ok && top.Owner == player
}
