package entity

import (
	"encoding/json"
	"fmt"
)

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// WinCombos lists every line of three cells: rows, columns, then diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// MarshalJSON encodes an empty cell as null so clients see [null, "X", ...].
func (m Mark) MarshalJSON() ([]byte, error) {
	if m == EmptyCell {
		return []byte("null"), nil
	}

	return json.Marshal(string(m))
}

func (m *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	switch mark := Mark(raw); mark {
	case EmptyCell, PlayerX, PlayerO:
		*m = mark
		return nil
	default:
		return fmt.Errorf("unknown mark %q", raw)
	}
}

type Board [BoardSize]Mark

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

type Result string

const (
	ResultInProgress Result = "in_progress"
	ResultWon        Result = "won"
	ResultDraw       Result = "draw"
)

// Verdict is the outcome of evaluating a board. Mark is set only for ResultWon.
type Verdict struct {
	Result Result
	Mark   Mark
}

func (that Verdict) IsTerminal() bool {
	return that.Result != ResultInProgress
}

// Evaluate reports the first completed line in WinCombos order, a draw when the
// board is full, and in progress otherwise.
func Evaluate(board Board) Verdict {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Verdict{Result: ResultWon, Mark: a}
		}
	}

	if board.IsFull() {
		return Verdict{Result: ResultDraw}
	}

	return Verdict{Result: ResultInProgress}
}
