package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Client -> server actions.
const (
	ActionCreateRoom     = "createRoom"
	ActionJoinRoom       = "joinRoom"
	ActionMakeMove       = "makeMove"
	ActionRequestRematch = "requestRematch"
)

// Server -> client actions.
const (
	ActionConnected          = "connected"
	ActionRoomCreated        = "roomCreated"
	ActionWaitingForOpponent = "waitingForOpponent"
	ActionGameStart          = "gameStart"
	ActionGameUpdate         = "gameUpdate"
	ActionGameOver           = "gameOver"
	ActionPlayerDisconnected = "playerDisconnected"
	ActionError              = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type MovePayload struct {
	RoomID string `json:"roomId"`
	Index  *int   `json:"index"`
}

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type GameStartPayload struct {
	Players     []string     `json:"players"`
	Board       entity.Board `json:"board"`
	CurrentTurn string       `json:"currentTurn"`
}

type GameUpdatePayload struct {
	Board       entity.Board `json:"board"`
	CurrentTurn string       `json:"currentTurn"`
}

type GameOverPayload struct {
	Board  entity.Board `json:"board"`
	Winner string       `json:"winner"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newGameStartPayload(room *entity.Room) GameStartPayload {
	return GameStartPayload{
		Players:     room.Players,
		Board:       room.Board,
		CurrentTurn: room.TurnPlayer(),
	}
}

// encodeMessage - builds a frame body; a nil payload is left out of the envelope.
func encodeMessage(action string, payload any) ([]byte, error) {
	message := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", action, err)
		}

		message.Payload = raw
	}

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}

func decodePayload(message *Message, target any) error {
	if len(message.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", errMalformedMessage, message.Action)
	}

	if err := json.Unmarshal(message.Payload, target); err != nil {
		return fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return nil
}
