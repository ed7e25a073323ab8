package entity

import "time"

// MatchResult is a finished game as kept in the results store.
type MatchResult struct {
	RoomID     string    `json:"room_id"`
	Winner     string    `json:"winner"`
	WinnerID   string    `json:"winner_id,omitempty"`
	Players    []string  `json:"players"`
	Board      Board     `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewMatchResult(room *Room, finishedAt time.Time) *MatchResult {
	result := &MatchResult{
		RoomID:     room.ID,
		Winner:     room.Winner,
		Players:    append([]string(nil), room.Players...),
		Board:      room.Board,
		FinishedAt: finishedAt.UTC(),
	}

	if room.Winner != Draw {
		result.WinnerID = room.WinnerID()
	}

	return result
}

// Stats aggregates recorded results: totals keyed by "X", "O" and "draw".
type Stats struct {
	Totals map[string]int64 `json:"totals"`
	Recent []*MatchResult   `json:"recent"`
}
