package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	args := that.Called(ctx, roomID)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (that *mockGameUseCase) GetStats(ctx context.Context) (*entity.Stats, error) {
	args := that.Called(ctx)
	stats, _ := args.Get(0).(*entity.Stats)
	return stats, args.Error(1)
}

func newTestRouter(t *testing.T, game gameUseCase, staticDir string) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	return NewRouter(logger, NewHandlers(logger, game), ws, staticDir)
}

func serve(handler http.Handler, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestPing(t *testing.T) {
	router := newTestRouter(t, &mockGameUseCase{}, "")

	recorder := serve(router, "/ping")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestWebSocketRoute(t *testing.T) {
	router := newTestRouter(t, &mockGameUseCase{}, "")

	recorder := serve(router, "/ws")

	assert.Equal(t, http.StatusTeapot, recorder.Code)
}

func TestHandlers_GetRoom(t *testing.T) {
	t.Run("Existing room", func(t *testing.T) {
		// Given: a room with one move played
		room := entity.NewRoom("ABCD", "alice")
		require.NoError(t, room.AddPlayer("bob"))
		room.Board[4] = entity.PlayerX
		room.CurrentTurn = 1

		game := &mockGameUseCase{}
		game.On("GetRoom", mock.Anything, "ABCD").Return(room, nil)

		// When: the room is requested
		recorder := serve(newTestRouter(t, game, ""), "/api/rooms/ABCD")

		// Then: the snapshot is returned
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"id": "ABCD",
			"players": ["alice", "bob"],
			"board": [null, null, null, null, "X", null, null, null, null],
			"current_turn": 1,
			"status": "active"
		}`, recorder.Body.String())
		game.AssertExpectations(t)
	})

	t.Run("Unknown room", func(t *testing.T) {
		game := &mockGameUseCase{}
		game.On("GetRoom", mock.Anything, "ZZZZ").
			Return(nil, fmt.Errorf("failed to get room: %w", apperror.ErrRoomNotFound))

		recorder := serve(newTestRouter(t, game, ""), "/api/rooms/ZZZZ")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.JSONEq(t, `{"error": "Room not found"}`, recorder.Body.String())
	})

	t.Run("Store failure", func(t *testing.T) {
		game := &mockGameUseCase{}
		game.On("GetRoom", mock.Anything, "ABCD").Return(nil, errors.New("boom"))

		recorder := serve(newTestRouter(t, game, ""), "/api/rooms/ABCD")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestHandlers_GetStats(t *testing.T) {
	t.Run("Recorded results", func(t *testing.T) {
		stats := &entity.Stats{
			Totals: map[string]int64{"X": 2, "O": 1, entity.Draw: 0},
			Recent: []*entity.MatchResult{},
		}

		game := &mockGameUseCase{}
		game.On("GetStats", mock.Anything).Return(stats, nil)

		recorder := serve(newTestRouter(t, game, ""), "/api/stats")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"totals": {"X": 2, "O": 1, "draw": 0}, "recent": []}`, recorder.Body.String())
	})

	t.Run("Recording disabled", func(t *testing.T) {
		game := &mockGameUseCase{}
		game.On("GetStats", mock.Anything).Return(nil, apperror.ErrStatsDisabled)

		recorder := serve(newTestRouter(t, game, ""), "/api/stats")

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tic-tac-toe</h1>"), 0o600))

	router := newTestRouter(t, &mockGameUseCase{}, dir)

	recorder := serve(router, "/")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "tic-tac-toe")
}
