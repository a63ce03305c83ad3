package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/gobblet-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// respondError - game, when not nil, is the unchanged state after a rejected command.
func (that *Server) respondError(w http.ResponseWriter, err error, game *entity.Game) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.respondJSON(w, status, errorResponse{Error: err.Error(), Game: game})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameAlreadyOver),
		errors.Is(err, apperror.ErrWrongTurn):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNoPiecesRemaining),
		errors.Is(err, apperror.ErrNoOwnedPieceAtSource),
		errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrCannotCoverPiece):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrInvalidCell),
		errors.Is(err, entity.ErrInvalidSize),
		errors.Is(err, entity.ErrInvalidPlayer),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
