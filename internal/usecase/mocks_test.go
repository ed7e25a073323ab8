package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type mockResultRepo struct {
	mock.Mock
}

func (m *mockResultRepo) Save(ctx context.Context, result *entity.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *mockResultRepo) GetRecent(ctx context.Context) ([]*entity.MatchResult, error) {
	args := m.Called(ctx)

	recent, _ := args.Get(0).([]*entity.MatchResult)
	return recent, args.Error(1)
}

func (m *mockResultRepo) GetTotals(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)

	totals, _ := args.Get(0).(map[string]int64)
	return totals, args.Error(1)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockRoomRepo) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockRoomRepo) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	args := m.Called(ctx, id)

	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockRoomRepo) GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Room, error) {
	args := m.Called(ctx, playerID)

	rooms, _ := args.Get(0).([]*entity.Room)
	return rooms, args.Error(1)
}

func (m *mockRoomRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
