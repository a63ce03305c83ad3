package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

type placeRequest struct {
	Player entity.Player `json:"player"`
	Size   *entity.Size  `json:"size"`
	Cell   *int          `json:"cell"`
}

type moveRequest struct {
	Player entity.Player `json:"player"`
	From   *int          `json:"from"`
	To     *int          `json:"to"`
}

type topPieceResponse struct {
	Cell  int           `json:"cell"`
	Piece *entity.Piece `json:"piece"`
}

type legalResponse struct {
	Cells []int `json:"cells"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	that.respondJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	that.respondJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.respondError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, fmt.Errorf("%w: %w", errBadRequest, err), nil)
		return
	}

	if req.Size == nil || req.Cell == nil {
		that.respondError(w, fmt.Errorf("%w: size and cell are required", errBadRequest), nil)
		return
	}

	that.execute(w, r, gobblet.PlaceCommand{Player: req.Player, Size: *req.Size, Dest: *req.Cell})
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, fmt.Errorf("%w: %w", errBadRequest, err), nil)
		return
	}

	if req.From == nil || req.To == nil {
		that.respondError(w, fmt.Errorf("%w: from and to are required", errBadRequest), nil)
		return
	}

	that.execute(w, r, gobblet.MoveCommand{Player: req.Player, Src: *req.From, Dest: *req.To})
}

func (that *Server) execute(w http.ResponseWriter, r *http.Request, cmd gobblet.Command) {
	game, err := that.games.Execute(r.Context(), mux.Vars(r)["id"], cmd)
	if err != nil {
		that.respondError(w, err, game)
		return
	}

	that.notify(game)
	that.respondJSON(w, http.StatusOK, game)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	that.notify(game)
	that.respondJSON(w, http.StatusOK, game)
}

func (that *Server) handleTopPiece(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	cell, err := strconv.Atoi(vars["cell"])
	if err != nil {
		that.respondError(w, fmt.Errorf("%w: %w", entity.ErrInvalidCell, err), nil)
		return
	}

	piece, ok, err := that.games.TopPiece(r.Context(), vars["id"], cell)
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	resp := topPieceResponse{Cell: cell}
	if ok {
		resp.Piece = &piece
	}

	that.respondJSON(w, http.StatusOK, resp)
}

// handleLegal - ?player=A plus either size=S|M|L or from=<cell>.
func (that *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	player, err := entity.ParsePlayer(query.Get("player"))
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	origin, err := parseOrigin(query.Get("size"), query.Get("from"))
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	cells, err := that.games.LegalDestinations(r.Context(), mux.Vars(r)["id"], player, origin)
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	that.respondJSON(w, http.StatusOK, legalResponse{Cells: cells})
}

func (that *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	score, err := that.games.GetScore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.respondError(w, err, nil)
		return
	}

	that.respondJSON(w, http.StatusOK, score)
}

func (that *Server) notify(game *entity.Game) {
	if that.notifier != nil {
		that.notifier.Broadcast(game)
	}
}

func parseOrigin(size, from string) (gobblet.Origin, error) {
	switch {
	case size != "" && from != "":
		return gobblet.Origin{}, fmt.Errorf("%w: size and from are exclusive", errBadRequest)
	case size != "":
		parsed, err := entity.ParseSize(size)
		if err != nil {
			return gobblet.Origin{}, err
		}
		return gobblet.FromHand(parsed), nil
	case from != "":
		cell, err := strconv.Atoi(from)
		if err != nil {
			return gobblet.Origin{}, fmt.Errorf("%w: %w", entity.ErrInvalidCell, err)
		}
		return gobblet.FromCell(cell), nil
	default:
		return gobblet.Origin{}, fmt.Errorf("%w: size or from is required", errBadRequest)
	}
}
