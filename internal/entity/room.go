package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

const (
	MaxPlayers = 2

	// Draw is the winner value of a game that ended with a full board.
	Draw = "draw"
)

// Room pairs up to two players around one board. Players[0] plays X and moves
// first, Players[1] plays O.
type Room struct {
	ID          string   `json:"id"`
	Players     []string `json:"players"`
	Board       Board    `json:"board"`
	CurrentTurn int      `json:"current_turn"`
	Status      Status   `json:"status"`
	Winner      string   `json:"winner,omitempty"`
}

// MoveOutcome is what the router broadcasts after an accepted move.
type MoveOutcome struct {
	Board    Board
	Verdict  Verdict
	NextTurn string
	Winner   string
}

func NewRoom(id, playerID string) *Room {
	return &Room{
		ID:          id,
		Players:     []string{playerID},
		CurrentTurn: 0,
		Status:      StatusWaiting,
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) HasPlayer(playerID string) bool {
	return that.playerIndex(playerID) != -1
}

// AddPlayer appends a second player and starts the game once the room is full.
func (that *Room) AddPlayer(playerID string) error {
	if that.HasPlayer(playerID) {
		return apperror.ErrAlreadyInRoom
	}

	if that.IsFull() {
		return fmt.Errorf("%w: room %s has %d players", apperror.ErrRoomFull, that.ID, len(that.Players))
	}

	that.Players = append(that.Players, playerID)

	if that.IsFull() {
		that.Status = StatusActive
	}

	return nil
}

// MarkOf returns the symbol of a member, derived from join order.
func (that *Room) MarkOf(playerID string) (Mark, bool) {
	switch that.playerIndex(playerID) {
	case 0:
		return PlayerX, true
	case 1:
		return PlayerO, true
	default:
		return EmptyCell, false
	}
}

// TurnPlayer returns the id of the player who moves next, or "" if that seat is empty.
func (that *Room) TurnPlayer() string {
	if that.CurrentTurn < 0 || that.CurrentTurn >= len(that.Players) {
		return ""
	}

	return that.Players[that.CurrentTurn]
}

// WinnerID maps the winning mark to the player holding it. A draw stays "draw".
func (that *Room) WinnerID() string {
	switch Mark(that.Winner) {
	case PlayerX:
		return that.playerAt(0)
	case PlayerO:
		return that.playerAt(1)
	}

	return that.Winner
}

// ApplyMove validates and plays a move. A rejected move leaves the room untouched.
// The creator may move before the opponent joins; the O seat is then empty and
// nobody can take the next turn until it is filled.
func (that *Room) ApplyMove(playerID string, cell int) (*MoveOutcome, error) {
	if that.IsFinished() {
		return nil, apperror.ErrGameAlreadyOver
	}

	mark, ok := that.MarkOf(playerID)
	if !ok {
		return nil, apperror.ErrUnknownPlayer
	}

	if that.TurnPlayer() != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrIndexOutOfRange, cell)
	}

	if that.Board[cell] != EmptyCell {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that.Board[cell] = mark

	verdict := Evaluate(that.Board)
	switch verdict.Result {
	case ResultWon:
		that.Status = StatusFinished
		that.Winner = string(verdict.Mark)
	case ResultDraw:
		that.Status = StatusFinished
		that.Winner = Draw
	default:
		that.CurrentTurn = 1 - that.CurrentTurn
	}

	outcome := &MoveOutcome{
		Board:   that.Board,
		Verdict: verdict,
	}

	if that.IsFinished() {
		outcome.Winner = that.WinnerID()
	} else {
		outcome.NextTurn = that.TurnPlayer()
	}

	return outcome, nil
}

// Reset clears the board for a rematch. X moves first again and the room is
// active even if the O seat is still empty.
func (that *Room) Reset() {
	that.Board = Board{}
	that.CurrentTurn = 0
	that.Winner = ""
	that.Status = StatusActive
}

// Clone returns a deep copy safe to hand out of the registry.
func (that *Room) Clone() *Room {
	clone := *that
	clone.Players = append([]string(nil), that.Players...)

	return &clone
}

func (that *Room) playerIndex(playerID string) int {
	for i, id := range that.Players {
		if id == playerID {
			return i
		}
	}

	return -1
}

func (that *Room) playerAt(index int) string {
	if index < len(that.Players) {
		return that.Players[index]
	}

	return ""
}
