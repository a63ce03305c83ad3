package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
)

var ErrUnfinishedGame = errors.New("game is not finished")

const (
	fieldA     = "a"
	fieldB     = "b"
	fieldDraws = "draws"
)

type ScoreRepository interface {
	RecordResult(ctx context.Context, gameID string, state entity.GameState) (entity.Score, error)
	GetByGameID(ctx context.Context, gameID string) (entity.Score, error)
	DeleteByGameID(ctx context.Context, gameID string) error
}

type dbScore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreRepository - ttl of zero keeps scores until the table is deleted.
func NewScoreRepository(client *redis.Client, ttl time.Duration) ScoreRepository {
	return &dbScore{
		client: client,
		ttl:    ttl,
	}
}

func scoreKey(gameID string) string {
	return "score:" + gameID
}

func (that *dbScore) RecordResult(ctx context.Context, gameID string, state entity.GameState) (entity.Score, error) {
	field, err := resultField(state)
	if err != nil {
		return entity.Score{}, err
	}

	key := scoreKey(gameID)

	pipe := that.client.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	if that.ttl > 0 {
		pipe.Expire(ctx, key, that.ttl)
	}
	all := pipe.HGetAll(ctx, key)

	if _, err = pipe.Exec(ctx); err != nil {
		return entity.Score{}, fmt.Errorf("failed to record result: %w", err)
	}

	return parseScore(all.Val())
}

func (that *dbScore) GetByGameID(ctx context.Context, gameID string) (entity.Score, error) {
	values, err := that.client.HGetAll(ctx, scoreKey(gameID)).Result()
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	return parseScore(values)
}

func (that *dbScore) DeleteByGameID(ctx context.Context, gameID string) error {
	if err := that.client.Del(ctx, scoreKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to delete score by game ID: %w", err)
	}

	return nil
}

func resultField(state entity.GameState) (string, error) {
	switch {
	case state.Status == entity.StatusDraw:
		return fieldDraws, nil
	case state.Status == entity.StatusWon && state.Winner == entity.PlayerA:
		return fieldA, nil
	case state.Status == entity.StatusWon && state.Winner == entity.PlayerB:
		return fieldB, nil
	default:
		return "", fmt.Errorf("%w: status %s", ErrUnfinishedGame, state.Status)
	}
}

// parseScore - a missing hash is an empty score.
func parseScore(values map[string]string) (entity.Score, error) {
	var score entity.Score

	targets := map[string]*int{
		fieldA:     &score.A,
		fieldB:     &score.B,
		fieldDraws: &score.Draws,
	}

	for field, target := range targets {
		raw, ok := values[field]
		if !ok {
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return entity.Score{}, fmt.Errorf("failed to parse score field %s: %w", field, err)
		}
		*target = value
	}

	return score, nil
}
