package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type Handlers interface {
	GetRoom(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewHandlers(logger *slog.Logger, game gameUseCase) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

// GetRoom - returns a snapshot of one live room.
func (that *handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := that.game.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Room not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to get room", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, room)
}

// GetStats - returns totals and recent finished games from the results store.
func (that *handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.game.GetStats(r.Context())
	if errors.Is(err, apperror.ErrStatsDisabled) {
		that.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Stats are disabled"})
		return
	}

	if err != nil {
		that.logger.Error("failed to get stats", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
