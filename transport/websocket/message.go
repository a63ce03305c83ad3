package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
)

const (
	actionNewGame   = "game:new"
	actionJoinGame  = "game:join"
	actionPlace     = "game:place"
	actionMove      = "game:move"
	actionReset     = "game:reset"
	actionLegal     = "game:legal"
	actionUpdate    = "game:update"
	actionUnknown   = "error"
	maxMessageBytes = 4096
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload - fields used depend on the action. GameID falls back to the last joined table.
type RequestPayload struct {
	GameID string        `json:"game_id,omitempty"`
	Player entity.Player `json:"player,omitempty"`
	Size   *entity.Size  `json:"size,omitempty"`
	Cell   *int          `json:"cell,omitempty"`
	From   *int          `json:"from,omitempty"`
	To     *int          `json:"to,omitempty"`
}

type ResponsePayload struct {
	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

// LegalPayload - reply to game:legal. Cells is always a list, empty when nothing is legal.
type LegalPayload struct {
	Cells []int `json:"cells"`
}
