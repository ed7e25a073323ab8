package apperror

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("player is already in the room")
	ErrRoomIDExhausted = errors.New("could not allocate a free room id")

	ErrGameAlreadyOver = errors.New("game is already over")
	ErrUnknownPlayer   = errors.New("player is not a member of the room")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrIndexOutOfRange = errors.New("cell index is out of range")

	ErrStatsDisabled = errors.New("match results are not recorded")
)
