package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Execute(ctx context.Context, id string, cmd gobblet.Command) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	LegalDestinations(ctx context.Context, id string, player entity.Player, origin gobblet.Origin) ([]int, error)
}

type handler func(ctx context.Context, msg *Message, conn *client) error

// client is one connection. Writes are serialized because broadcasts come from other goroutines.
type client struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	gameID  string
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handler

	watchersMutex sync.RWMutex
	watchers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handler),
		watchers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionPlace] = server.handlePlace
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionLegal] = server.handleLegal

	return server
}

// Handler - the /ws endpoint, exposed for embedding and tests.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})
	return mux
}

// Start - starts WebSocket server and blocks until ctx is canceled.
func (that *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Broadcast - pushes a state change made elsewhere to every watcher of the table.
func (that *Server) Broadcast(game *entity.Game) {
	that.broadcast(actionUpdate, game)
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	defer func() {
		that.unwatch(c)
		_ = conn.Close()
	}()

	log.Debug("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(ctx, c); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	c.conn.SetReadLimit(maxMessageBytes)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, actionUnknown, "malformed message")
			continue
		}

		h, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(c, message.Action, "unknown action")
			continue
		}

		if err = h(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) watch(c *client, gameID string) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	if c.gameID != "" {
		delete(that.watchers[c.gameID], c)
	}

	if that.watchers[gameID] == nil {
		that.watchers[gameID] = make(map[*client]struct{})
	}
	that.watchers[gameID][c] = struct{}{}
	c.gameID = gameID
}

func (that *Server) unwatch(c *client) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	if clients, ok := that.watchers[c.gameID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(that.watchers, c.gameID)
		}
	}
}

func (that *Server) broadcast(action string, game *entity.Game) {
	that.watchersMutex.RLock()
	clients := make([]*client, 0, len(that.watchers[game.ID]))
	for c := range that.watchers[game.ID] {
		clients = append(clients, c)
	}
	that.watchersMutex.RUnlock()

	for _, c := range clients {
		if err := that.send(c, action, ResponsePayload{Game: game}); err != nil {
			that.logger.Warn("failed to send game update", "gameID", game.ID, "error", err)
		}
	}
}

func (that *Server) send(c *client, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err = c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = c.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(c *client, action, errorMsg string) {
	if err := that.send(c, action, ResponsePayload{Error: errorMsg}); err != nil {
		that.logger.Warn("failed to send error response", "error", err)
	}
}
