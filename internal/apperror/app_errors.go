package apperror

import "errors"

// Rejected engine commands. A command failing with one of these leaves the game untouched.
var (
	ErrGameAlreadyOver      = errors.New("game is already over")
	ErrWrongTurn            = errors.New("it's not your turn")
	ErrNoPiecesRemaining    = errors.New("no pieces of this size remaining")
	ErrNoOwnedPieceAtSource = errors.New("no piece of yours on top of the source cell")
	ErrInvalidMove          = errors.New("source and destination cells are the same")
	ErrCannotCoverPiece     = errors.New("piece is not larger than the top piece of the cell")
)

var ErrGameNotFound = errors.New("game not found")
