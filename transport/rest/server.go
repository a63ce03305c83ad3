package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Execute(ctx context.Context, id string, cmd gobblet.Command) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	TopPiece(ctx context.Context, id string, cell int) (entity.Piece, bool, error)
	LegalDestinations(ctx context.Context, id string, player entity.Player, origin gobblet.Origin) ([]int, error)
	DeleteGame(ctx context.Context, id string) error
	GetScore(ctx context.Context, id string) (entity.Score, error)
}

// notifier is told about every state change made over HTTP, so other transports can push it.
type notifier interface {
	Broadcast(game *entity.Game)
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	notifier notifier
	router   *mux.Router
}

// New - notifier may be nil.
func New(logger *slog.Logger, games gameUseCase, notifier notifier) *Server {
	server := &Server{
		logger:   logger.With("component", "rest"),
		games:    games,
		notifier: notifier,
		router:   mux.NewRouter(),
	}

	server.setupRoutes()

	return server
}

func (that *Server) setupRoutes() {
	that.router.HandleFunc("/ping", that.handlePing).Methods(http.MethodGet)

	games := that.router.PathPrefix("/games").Subrouter()
	games.HandleFunc("", that.handleCreateGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}", that.handleGetGame).Methods(http.MethodGet)
	games.HandleFunc("/{id}", that.handleDeleteGame).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/place", that.handlePlace).Methods(http.MethodPost)
	games.HandleFunc("/{id}/move", that.handleMove).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", that.handleReset).Methods(http.MethodPost)
	games.HandleFunc("/{id}/cells/{cell:[0-9]+}", that.handleTopPiece).Methods(http.MethodGet)
	games.HandleFunc("/{id}/legal", that.handleLegal).Methods(http.MethodGet)
	games.HandleFunc("/{id}/score", that.handleScore).Methods(http.MethodGet)
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.router.ServeHTTP(w, r)
}

// Start - serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      that,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
