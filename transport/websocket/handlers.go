package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

var (
	errUnknownAction    = errors.New("unknown action")
	errMalformedMessage = errors.New("malformed message")
)

const internalErrorMessage = "Internal server error"

// errorMessages maps rejections to the text shown to the player.
var errorMessages = []struct {
	err     error
	message string
}{
	{apperror.ErrRoomNotFound, "Room not found"},
	{apperror.ErrRoomFull, "Room is full"},
	{apperror.ErrAlreadyInRoom, "Already in room"},
	{apperror.ErrRoomIDExhausted, "No free room codes, try again"},
	{apperror.ErrNotYourTurn, "Not your turn"},
	{apperror.ErrCellOccupied, "Invalid move"},
	{apperror.ErrIndexOutOfRange, "Invalid move"},
	{apperror.ErrGameAlreadyOver, "Game is over"},
	{apperror.ErrUnknownPlayer, "Unknown player"},
	{errUnknownAction, "Unknown action"},
	{errMalformedMessage, "Malformed message"},
}

func errorMessage(err error) (string, bool) {
	for _, item := range errorMessages {
		if errors.Is(err, item.err) {
			return item.message, true
		}
	}

	return internalErrorMessage, false
}

func (that *Server) handleCreateRoom(ctx context.Context, client *Client, _ *Message) error {
	room, err := that.uGame.CreateRoom(ctx, client.ID)
	if err != nil {
		return err
	}

	that.send(client.ID, ActionRoomCreated, RoomCreatedPayload{RoomID: room.ID})

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, client *Client, message *Message) error {
	var payload RoomPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}

	room, err := that.uGame.JoinRoom(ctx, payload.RoomID, client.ID)
	if err != nil {
		return err
	}

	if room.IsFull() {
		that.broadcast(room, ActionGameStart, newGameStartPayload(room))
		return nil
	}

	that.send(client.ID, ActionWaitingForOpponent, nil)

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, client *Client, message *Message) error {
	var payload MovePayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}

	// a missing index is an invalid move, not a move on cell 0
	cell := -1
	if payload.Index != nil {
		cell = *payload.Index
	}

	room, outcome, err := that.uGame.MakeMove(ctx, payload.RoomID, client.ID, cell)
	if err != nil {
		return err
	}

	if outcome.Verdict.IsTerminal() {
		that.broadcast(room, ActionGameOver, GameOverPayload{
			Board:  outcome.Board,
			Winner: outcome.Winner,
		})

		return nil
	}

	that.broadcast(room, ActionGameUpdate, GameUpdatePayload{
		Board:       outcome.Board,
		CurrentTurn: outcome.NextTurn,
	})

	return nil
}

func (that *Server) handleRequestRematch(ctx context.Context, _ *Client, message *Message) error {
	var payload RoomPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}

	room, err := that.uGame.RequestRematch(ctx, payload.RoomID)
	if err != nil {
		return err
	}

	that.broadcast(room, ActionGameStart, newGameStartPayload(room))

	return nil
}

// handleDisconnect closes every room of the player and tells the others once.
func (that *Server) handleDisconnect(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleDisconnect", "playerID", client.ID)

	that.unregister(client)

	rooms, err := that.uGame.LeaveRooms(ctx, client.ID)
	if err != nil {
		log.Error("failed to leave rooms", "error", err)
		return
	}

	notified := make(map[string]struct{})
	for _, room := range rooms {
		for _, playerID := range room.Players {
			if playerID == client.ID {
				continue
			}

			if _, ok := notified[playerID]; ok {
				continue
			}
			notified[playerID] = struct{}{}

			that.send(playerID, ActionPlayerDisconnected, nil)
		}
	}

	log.Info("player disconnected", "rooms", len(rooms))
}

func (that *Server) sendError(client *Client, err error) {
	message, known := errorMessage(err)
	if !known {
		that.logger.Error("failed to handle message", "playerID", client.ID, "error", err)
	}

	that.send(client.ID, ActionError, ErrorPayload{Message: message})
}
