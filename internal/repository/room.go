package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var ErrRoomAlreadyExists = errors.New("room already exists")

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context)
}

// memoryRoom keeps rooms in process memory. Rooms are copied on the way in and
// on the way out, so callers never share state with the store.
type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]*entity.Room),
	}
}

// Create inserts a room only if its id is free.
func (that *memoryRoom) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[room.ID]; ok {
		return fmt.Errorf("%w: %s", ErrRoomAlreadyExists, room.ID)
	}

	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRoom) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room.Clone(), nil
}

// GetByPlayerID returns every room the player is a member of, ordered by id.
func (that *memoryRoom) GetByPlayerID(_ context.Context, playerID string) ([]*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	var rooms []*entity.Room
	for _, room := range that.rooms {
		if room.HasPlayer(playerID) {
			rooms = append(rooms, room.Clone())
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})

	return rooms, nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}

func (that *memoryRoom) Clear(_ context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	clear(that.rooms)
}
