package gobblet

import (
	"fmt"

	"github.com/rocketscienceinc/gobblet-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
)

// Engine owns one game and applies the rules to it.
// It is not safe for concurrent use; callers serialize commands per engine.
type Engine struct {
	state entity.GameState
}

func NewEngine() *Engine {
	return &Engine{state: entity.NewGameState()}
}

// PlaceNewPiece - puts a piece from the player's hand onto a cell.
func (that *Engine) PlaceNewPiece(player entity.Player, size entity.Size, cell int) (entity.GameState, error) {
	if err := that.validatePlacement(player, size, cell); err != nil {
		return that.Snapshot(), fmt.Errorf("failed to place piece: %w", err)
	}

	that.state.Inventory[player][size]--
	that.state.Board[cell].Push(entity.Piece{Owner: player, Size: size})
	that.endTurn()

	return that.Snapshot(), nil
}

// MoveExistingPiece - moves the player's top piece from one cell to another.
func (that *Engine) MoveExistingPiece(player entity.Player, from, to int) (entity.GameState, error) {
	if err := that.validateMove(player, from, to); err != nil {
		return that.Snapshot(), fmt.Errorf("failed to move piece: %w", err)
	}

	piece, _ := that.state.Board[from].Pop()
	that.state.Board[to].Push(piece)
	that.endTurn()

	return that.Snapshot(), nil
}

// Apply - runs a tagged command.
func (that *Engine) Apply(cmd Command) (entity.GameState, error) {
	switch cmd := cmd.(type) {
	case PlaceCommand:
		return that.PlaceNewPiece(cmd.Player, cmd.Size, cmd.Dest)
	case MoveCommand:
		return that.MoveExistingPiece(cmd.Player, cmd.Src, cmd.Dest)
	default:
		return that.Snapshot(), fmt.Errorf("unknown command %T", cmd)
	}
}

// Reset - abandons the current game and starts a fresh one.
func (that *Engine) Reset() entity.GameState {
	that.state = entity.NewGameState()
	return that.Snapshot()
}

func (that *Engine) Snapshot() entity.GameState {
	return that.state.Clone()
}

func (that *Engine) TopPiece(cell int) (entity.Piece, bool, error) {
	if err := entity.ValidCell(cell); err != nil {
		return entity.Piece{}, false, err
	}

	piece, ok := that.state.Board.Top(cell)
	return piece, ok, nil
}

// LegalDestinations - cells the piece from origin could go to right now, ascending. Empty for the zero Origin.
func (that *Engine) LegalDestinations(player entity.Player, origin Origin) []int {
	cells := make([]int, 0, entity.BoardSize)
	if !origin.IsValid() {
		return cells
	}

	for dest := 0; dest < entity.BoardSize; dest++ {
		cmd, _ := origin.Command(player, dest)
		if that.validate(cmd) == nil {
			cells = append(cells, dest)
		}
	}
	return cells
}

func (that *Engine) validate(cmd Command) error {
	switch cmd := cmd.(type) {
	case PlaceCommand:
		return that.validatePlacement(cmd.Player, cmd.Size, cmd.Dest)
	case MoveCommand:
		return that.validateMove(cmd.Player, cmd.Src, cmd.Dest)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

func (that *Engine) validatePlacement(player entity.Player, size entity.Size, cell int) error {
	if err := that.state.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateInput(player, cell); err != nil {
		return err
	}

	if !size.IsValid() {
		return fmt.Errorf("%w: %d", entity.ErrInvalidSize, int(size))
	}

	if player != that.state.Turn {
		return apperror.ErrWrongTurn
	}

	if that.state.Inventory[player].Remaining(size) <= 0 {
		return fmt.Errorf("%w: %s", apperror.ErrNoPiecesRemaining, size)
	}

	return that.checkCover(entity.Piece{Owner: player, Size: size}, cell)
}

func (that *Engine) validateMove(player entity.Player, from, to int) error {
	if err := that.state.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateInput(player, from); err != nil {
		return err
	}

	if err := entity.ValidCell(to); err != nil {
		return err
	}

	if from == to {
		return apperror.ErrInvalidMove
	}

	if player != that.state.Turn {
		return apperror.ErrWrongTurn
	}

	piece, ok := that.state.Board.Top(from)
	if !ok || piece.Owner != player {
		return fmt.Errorf("%w: cell %d", apperror.ErrNoOwnedPieceAtSource, from)
	}

	return that.checkCover(piece, to)
}

func (that *Engine) checkCover(piece entity.Piece, cell int) error {
	top, ok := that.state.Board.Top(cell)
	if ok && !piece.CanCover(top) {
		return fmt.Errorf("%w: %s on %s", apperror.ErrCannotCoverPiece, piece.Size, top.Size)
	}
	return nil
}

func validateInput(player entity.Player, cell int) error {
	if !player.IsValid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidPlayer, string(player))
	}
	return entity.ValidCell(cell)
}

// endTurn - only the mover's lines are checked, then a full board is a draw.
func (that *Engine) endTurn() {
	mover := that.state.Turn

	switch {
	case that.state.Board.LineOwnedBy(mover):
		that.state.Status = entity.StatusWon
		that.state.Winner = mover
	case that.state.Board.IsFull():
		that.state.Status = entity.StatusDraw
	default:
		that.state.Turn = mover.Opponent()
	}
}
