package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
)

const (
	DefaultRoomIDAttempts = 16

	pendingResultsSize = 64
	saveResultTimeout  = 5 * time.Second
)

type GameUseCase interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (*entity.Room, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error

	MakeMove(ctx context.Context, roomID, playerID string, cell int) (*entity.Room, *entity.MoveOutcome, error)
	RequestRematch(ctx context.Context, roomID string) (*entity.Room, error)
	LeaveRooms(ctx context.Context, playerID string) ([]*entity.Room, error)

	GetStats(ctx context.Context) (*entity.Stats, error)
	RunRecorder(ctx context.Context)
}

type roomRepo interface {
	Create(ctx context.Context, room *entity.Room) error
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	GetRecent(ctx context.Context) ([]*entity.MatchResult, error)
	GetTotals(ctx context.Context) (map[string]int64, error)
}

type gameUseCase struct {
	logger *slog.Logger

	roomRepo   roomRepo
	resultRepo resultRepo

	roomIDAttempts int
	generateRoomID func() (string, error)
	now            func() time.Time

	pending chan *entity.MatchResult
}

// NewGameUseCase - builds the room registry and gameplay rules on top of the
// room store. resultRepo may be nil, in which case finished games are not recorded.
func NewGameUseCase(logger *slog.Logger, roomRepo roomRepo, resultRepo resultRepo, roomIDAttempts int) GameUseCase {
	if roomIDAttempts <= 0 {
		roomIDAttempts = DefaultRoomIDAttempts
	}

	return &gameUseCase{
		logger: logger.With("component", "game"),

		roomRepo:   roomRepo,
		resultRepo: resultRepo,

		roomIDAttempts: roomIDAttempts,
		generateRoomID: pkg.GenerateRoomID,
		now:            time.Now,

		pending: make(chan *entity.MatchResult, pendingResultsSize),
	}
}

// CreateRoom - allocates a free room code and seats the requester as X.
func (that *gameUseCase) CreateRoom(ctx context.Context, playerID string) (*entity.Room, error) {
	log := that.logger.With("method", "CreateRoom", "playerID", playerID)

	for attempt := 1; attempt <= that.roomIDAttempts; attempt++ {
		roomID, err := that.generateRoomID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room id: %w", err)
		}

		room := entity.NewRoom(roomID, playerID)

		err = that.roomRepo.Create(ctx, room)
		if errors.Is(err, repository.ErrRoomAlreadyExists) {
			log.Debug("room id collision, retrying", "roomID", roomID, "attempt", attempt)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		log.Info("room created", "roomID", roomID)

		return room, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", apperror.ErrRoomIDExhausted, that.roomIDAttempts)
}

func (that *gameUseCase) JoinRoom(ctx context.Context, roomID, playerID string) (*entity.Room, error) {
	room, err := that.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err = room.AddPlayer(playerID); err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", room.ID, err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.logger.Info("player joined room", "roomID", room.ID, "playerID", playerID, "status", room.Status)

	return room, nil
}

func (that *gameUseCase) GetRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByID(ctx, pkg.NormalizeRoomID(roomID))
	if err != nil {
		return nil, fmt.Errorf("failed to get room %q: %w", roomID, err)
	}

	return room, nil
}

func (that *gameUseCase) DeleteRoom(ctx context.Context, roomID string) error {
	if err := that.roomRepo.DeleteByID(ctx, pkg.NormalizeRoomID(roomID)); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// MakeMove - validates and applies a move. A finished game is queued for recording.
func (that *gameUseCase) MakeMove(ctx context.Context, roomID, playerID string, cell int) (*entity.Room, *entity.MoveOutcome, error) {
	room, err := that.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := room.ApplyMove(playerID, cell)
	if err != nil {
		return room, nil, fmt.Errorf("failed to make move: %w", err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, nil, fmt.Errorf("failed to update room: %w", err)
	}

	if room.IsFinished() {
		that.logger.Info("game over", "roomID", room.ID, "winner", room.Winner)
		that.recordResult(room)
	}

	return room, outcome, nil
}

// RequestRematch - clears the board of an existing room; X moves first again.
func (that *gameUseCase) RequestRematch(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	room.Reset()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	that.logger.Info("rematch started", "roomID", room.ID)

	return room, nil
}

// LeaveRooms - deletes every room the player is in and returns them as they
// were, so the remaining members can be told.
func (that *gameUseCase) LeaveRooms(ctx context.Context, playerID string) ([]*entity.Room, error) {
	log := that.logger.With("method", "LeaveRooms", "playerID", playerID)

	rooms, err := that.roomRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms by player: %w", err)
	}

	for _, room := range rooms {
		if err = that.roomRepo.DeleteByID(ctx, room.ID); err != nil {
			return nil, fmt.Errorf("failed to delete room %s: %w", room.ID, err)
		}

		log.Info("room closed after disconnect", "roomID", room.ID)
	}

	return rooms, nil
}

func (that *gameUseCase) GetStats(ctx context.Context) (*entity.Stats, error) {
	if that.resultRepo == nil {
		return nil, apperror.ErrStatsDisabled
	}

	totals, err := that.resultRepo.GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}

	recent, err := that.resultRepo.GetRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	return &entity.Stats{
		Totals: totals,
		Recent: recent,
	}, nil
}

// RunRecorder - saves queued results until ctx is done. Returns at once when
// results are not recorded.
func (that *gameUseCase) RunRecorder(ctx context.Context) {
	if that.resultRepo == nil {
		return
	}

	log := that.logger.With("method", "RunRecorder")

	for {
		select {
		case <-ctx.Done():
			return
		case result := <-that.pending:
			saveCtx, cancel := context.WithTimeout(ctx, saveResultTimeout)
			if err := that.resultRepo.Save(saveCtx, result); err != nil {
				log.Error("failed to save result", "roomID", result.RoomID, "error", err)
			}
			cancel()
		}
	}
}

// recordResult never blocks gameplay: a full queue drops the result.
func (that *gameUseCase) recordResult(room *entity.Room) {
	if that.resultRepo == nil {
		return
	}

	select {
	case that.pending <- entity.NewMatchResult(room, that.now()):
	default:
		that.logger.Warn("results queue is full, dropping result", "roomID", room.ID)
	}
}
