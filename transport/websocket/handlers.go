package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

var errNoGame = errors.New("no game selected, send game:new or game:join first")

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	game, err := that.games.CreateGame(ctx)
	if err != nil {
		that.sendError(c, msg.Action, "failed to create a new game")
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.watch(c, game.ID)

	return that.send(c, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, c *client) error {
	req, ok := that.decodePayload(msg, c)
	if !ok {
		return nil
	}

	game, err := that.games.GetGame(ctx, req.GameID)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	that.watch(c, game.ID)

	return that.send(c, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handlePlace(ctx context.Context, msg *Message, c *client) error {
	req, ok := that.decodePayload(msg, c)
	if !ok {
		return nil
	}

	if req.Size == nil || req.Cell == nil {
		that.sendError(c, msg.Action, "size and cell are required")
		return nil
	}

	return that.execute(ctx, msg.Action, c, req, gobblet.PlaceCommand{Player: req.Player, Size: *req.Size, Dest: *req.Cell})
}

func (that *Server) handleMove(ctx context.Context, msg *Message, c *client) error {
	req, ok := that.decodePayload(msg, c)
	if !ok {
		return nil
	}

	if req.From == nil || req.To == nil {
		that.sendError(c, msg.Action, "from and to are required")
		return nil
	}

	return that.execute(ctx, msg.Action, c, req, gobblet.MoveCommand{Player: req.Player, Src: *req.From, Dest: *req.To})
}

// execute - a rejected command is answered to the sender only, an applied one goes to every watcher.
func (that *Server) execute(ctx context.Context, action string, c *client, req RequestPayload, cmd gobblet.Command) error {
	gameID, err := that.gameID(c, req)
	if err != nil {
		that.sendError(c, action, err.Error())
		return nil
	}

	game, err := that.games.Execute(ctx, gameID, cmd)
	if err != nil {
		return that.send(c, action, ResponsePayload{Game: game, Error: err.Error()})
	}

	that.broadcast(action, game)

	return that.echoToOutsider(c, action, game)
}

// echoToOutsider - a sender addressing a table it does not watch still gets the result.
func (that *Server) echoToOutsider(c *client, action string, game *entity.Game) error {
	that.watchersMutex.RLock()
	watching := c.gameID == game.ID
	that.watchersMutex.RUnlock()

	if watching {
		return nil
	}

	return that.send(c, action, ResponsePayload{Game: game})
}

func (that *Server) handleReset(ctx context.Context, msg *Message, c *client) error {
	req, ok := that.decodePayload(msg, c)
	if !ok {
		return nil
	}

	gameID, err := that.gameID(c, req)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	game, err := that.games.ResetGame(ctx, gameID)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	that.broadcast(msg.Action, game)

	return that.echoToOutsider(c, msg.Action, game)
}

func (that *Server) handleLegal(ctx context.Context, msg *Message, c *client) error {
	req, ok := that.decodePayload(msg, c)
	if !ok {
		return nil
	}

	gameID, err := that.gameID(c, req)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	var origin gobblet.Origin
	switch {
	case req.Size != nil && req.From == nil:
		origin = gobblet.FromHand(*req.Size)
	case req.From != nil && req.Size == nil:
		origin = gobblet.FromCell(*req.From)
	default:
		that.sendError(c, msg.Action, "exactly one of size and from is required")
		return nil
	}

	cells, err := that.games.LegalDestinations(ctx, gameID, req.Player, origin)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	if cells == nil {
		cells = []int{}
	}

	return that.send(c, msg.Action, LegalPayload{Cells: cells})
}

// decodePayload - replies with an error itself when the payload is malformed.
func (that *Server) decodePayload(msg *Message, c *client) (RequestPayload, bool) {
	var req RequestPayload
	if len(msg.Payload) == 0 {
		return req, true
	}

	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		that.sendError(c, msg.Action, fmt.Sprintf("invalid payload: %v", err))
		return req, false
	}

	return req, true
}

func (that *Server) gameID(c *client, req RequestPayload) (string, error) {
	if req.GameID != "" {
		return req.GameID, nil
	}

	that.watchersMutex.RLock()
	defer that.watchersMutex.RUnlock()

	if c.gameID == "" {
		return "", errNoGame
	}

	return c.gameID, nil
}
