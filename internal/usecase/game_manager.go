package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gobblet-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

type scoreRepo interface {
	RecordResult(ctx context.Context, gameID string, state entity.GameState) (entity.Score, error)
	GetByGameID(ctx context.Context, gameID string) (entity.Score, error)
	DeleteByGameID(ctx context.Context, gameID string) error
}

// table is one engine plus the lock that serializes commands on it.
type table struct {
	mu     sync.Mutex
	engine *gobblet.Engine
}

// GameManager - keeps one engine per table; tables never share a lock.
type GameManager struct {
	logger    *slog.Logger
	scoreRepo scoreRepo

	mu     sync.RWMutex
	tables map[string]*table

	newID func() string
}

func NewGameManager(logger *slog.Logger, scoreRepo scoreRepo) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		scoreRepo: scoreRepo,

		tables: make(map[string]*table),
		newID:  uuid.NewString,
	}
}

func (that *GameManager) CreateGame(_ context.Context) (*entity.Game, error) {
	id := that.newID()
	t := &table{engine: gobblet.NewEngine()}

	that.mu.Lock()
	that.tables[id] = t
	that.mu.Unlock()

	that.logger.Info("game created", "gameID", id)

	return &entity.Game{ID: id, GameState: t.engine.Snapshot()}, nil
}

func (that *GameManager) GetGame(_ context.Context, id string) (*entity.Game, error) {
	t, err := that.getTable(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return &entity.Game{ID: id, GameState: t.engine.Snapshot()}, nil
}

// Execute - applies the command to the table. A rejected command still returns the unchanged game.
func (that *GameManager) Execute(ctx context.Context, id string, cmd gobblet.Command) (*entity.Game, error) {
	log := that.logger.With("method", "Execute", "gameID", id)

	t, err := that.getTable(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.engine.Apply(cmd)
	game := &entity.Game{ID: id, GameState: state}
	if err != nil {
		log.Debug("command rejected", "command", cmd, "error", err)
		return game, fmt.Errorf("failed to execute command: %w", err)
	}

	log.Debug("command applied", "command", cmd)

	if state.IsFinished() {
		log.Info("game finished", "status", state.Status, "winner", state.Winner)

		if _, err = that.scoreRepo.RecordResult(ctx, id, state); err != nil {
			log.Error("failed to record result", "error", err)
		}
	}

	return game, nil
}

func (that *GameManager) ResetGame(_ context.Context, id string) (*entity.Game, error) {
	t, err := that.getTable(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	that.logger.Debug("game reset", "gameID", id)

	return &entity.Game{ID: id, GameState: t.engine.Reset()}, nil
}

func (that *GameManager) TopPiece(_ context.Context, id string, cell int) (entity.Piece, bool, error) {
	t, err := that.getTable(id)
	if err != nil {
		return entity.Piece{}, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.engine.TopPiece(cell)
}

func (that *GameManager) LegalDestinations(_ context.Context, id string, player entity.Player, origin gobblet.Origin) ([]int, error) {
	t, err := that.getTable(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.engine.LegalDestinations(player, origin), nil
}

// DeleteGame - drops the table and its scoreboard.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	_, ok := that.tables[id]
	delete(that.tables, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	if err := that.scoreRepo.DeleteByGameID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) GetScore(ctx context.Context, id string) (entity.Score, error) {
	if _, err := that.getTable(id); err != nil {
		return entity.Score{}, err
	}

	score, err := that.scoreRepo.GetByGameID(ctx, id)
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

func (that *GameManager) getTable(id string) (*table, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	t, ok := that.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return t, nil
}
