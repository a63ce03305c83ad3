package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gobblet-backend/internal/config"
	"github.com/rocketscienceinc/gobblet-backend/internal/repository"
	"github.com/rocketscienceinc/gobblet-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gobblet-backend/internal/usecase"
	"github.com/rocketscienceinc/gobblet-backend/transport/rest"
	"github.com/rocketscienceinc/gobblet-backend/transport/terminal"
	"github.com/rocketscienceinc/gobblet-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the HTTP and WebSocket servers until a signal arrives or one of them fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := withSignals(log)
	defer cancel()

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	scoreRepo := repository.NewScoreRepository(redisStorage, conf.ScoreTTL)
	gameManager := usecase.NewGameManager(logger, scoreRepo)

	wsServer := websocket.New(logger, gameManager)
	restServer := rest.New(logger, gameManager, wsServer)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "addr", conf.HTTPAddr())
		if httpErr := restServer.Start(ctx, conf.HTTPAddr()); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "addr", conf.SocketAddr())
		if wsErr := wsServer.Start(ctx, conf.SocketAddr()); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// RunTerminal - hot-seat game on the given streams, no external services needed.
func RunTerminal(logger *slog.Logger, in io.Reader, out io.Writer) error {
	ctx, cancel := withSignals(logger.With("component", "app"))
	defer cancel()

	if err := terminal.New(logger, in, out).Run(ctx); err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}

	return nil
}

func withSignals(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}
