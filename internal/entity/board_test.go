package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = PlayerX
	o = PlayerO
	e = EmptyCell
)

func TestEvaluate(t *testing.T) {
	t.Run("Every completed line wins regardless of other cells", func(t *testing.T) {
		for _, combo := range WinCombos {
			for _, mark := range []Mark{PlayerX, PlayerO} {
				// Given: a board with one completed line and noise in the other cells
				other := PlayerO
				if mark == PlayerO {
					other = PlayerX
				}

				var board Board
				for i := range board {
					if i%4 == 1 {
						board[i] = other
					}
				}
				for _, cell := range combo {
					board[cell] = mark
				}

				// When: evaluating the board
				verdict := Evaluate(board)

				// Then: the line owner is reported as the winner
				assert.Equal(t, Verdict{Result: ResultWon, Mark: mark}, verdict, "combo %v", combo)
			}
		}
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a full board with no three in a row
		board := Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}

		// When: evaluating the board
		verdict := Evaluate(board)

		// Then: it should be a draw
		assert.Equal(t, ResultDraw, verdict.Result)
		assert.Equal(t, EmptyCell, verdict.Mark)
		assert.True(t, verdict.IsTerminal())
	})

	t.Run("Win on the last cell beats draw", func(t *testing.T) {
		// Given: a full board whose last move completes a diagonal
		board := Board{
			x, o, x,
			o, x, o,
			o, x, x,
		}

		// When: evaluating the board
		verdict := Evaluate(board)

		// Then: X wins
		assert.Equal(t, Verdict{Result: ResultWon, Mark: PlayerX}, verdict)
	})

	t.Run("Board with empty cells and no line is in progress", func(t *testing.T) {
		boards := []Board{
			{},
			{e, e, e, e, x, e, e, e, e},
			{x, o, e, e, x, e, e, e, o},
			{x, o, x, x, o, o, o, x, e},
		}

		for _, board := range boards {
			verdict := Evaluate(board)

			assert.Equal(t, ResultInProgress, verdict.Result)
			assert.False(t, verdict.IsTerminal())
		}
	})
}

func TestBoard_JSON(t *testing.T) {
	t.Run("Empty cells are encoded as null", func(t *testing.T) {
		// Given: a board with a single X in the centre
		board := Board{e, e, e, e, x, e, e, e, e}

		// When: encoding it
		data, err := json.Marshal(board)
		require.NoError(t, err)

		// Then: empty cells are null
		assert.JSONEq(t, `[null,null,null,null,"X",null,null,null,null]`, string(data))
	})

	t.Run("Null cells decode to empty", func(t *testing.T) {
		var board Board

		err := json.Unmarshal([]byte(`[null,"O",null,null,"X",null,null,null,null]`), &board)

		require.NoError(t, err)
		assert.Equal(t, Board{e, o, e, e, x, e, e, e, e}, board)
	})

	t.Run("Unknown marks are rejected", func(t *testing.T) {
		var board Board

		err := json.Unmarshal([]byte(`["Z",null,null,null,null,null,null,null,null]`), &board)

		require.Error(t, err)
	})
}
