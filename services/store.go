package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"quizroom/models"

	"github.com/redis/go-redis/v9"
)

// GameStore persists Game aggregates keyed by room code. Load returns
// (nil, nil) when no game exists for the code; errors are reserved for
// store failures.
type GameStore interface {
	Load(ctx context.Context, roomCode string) (*models.Game, error)
	Save(ctx context.Context, game *models.Game) error
	ExistsRoomCode(ctx context.Context, roomCode string) (bool, error)
}

// gameKeyTTL is the retention window for a room. Every save refreshes it, so
// abandoned rooms expire on their own.
const gameKeyTTL = 2 * time.Hour

// RedisGameStore stores each game as JSON under "game:<roomcode>".
type RedisGameStore struct {
	client *redis.Client
}

func NewRedisGameStore(client *redis.Client) *RedisGameStore {
	return &RedisGameStore{client: client}
}

func gameKey(roomCode string) string {
	return "game:" + strings.ToUpper(roomCode)
}

func (s *RedisGameStore) Load(ctx context.Context, roomCode string) (*models.Game, error) {
	data, err := s.client.Get(ctx, gameKey(roomCode)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", roomCode, err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", roomCode, err)
	}
	return &game, nil
}

func (s *RedisGameStore) Save(ctx context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", game.RoomCode, err)
	}

	if err := s.client.Set(ctx, gameKey(game.RoomCode), data, gameKeyTTL).Err(); err != nil {
		return fmt.Errorf("failed to store game %s: %w", game.RoomCode, err)
	}
	return nil
}

func (s *RedisGameStore) ExistsRoomCode(ctx context.Context, roomCode string) (bool, error) {
	n, err := s.client.Exists(ctx, gameKey(roomCode)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check room code %s: %w", roomCode, err)
	}
	return n > 0, nil
}

// MemoryGameStore keeps games in process memory. Used by tests and when no
// Redis address is configured.
type MemoryGameStore struct {
	mu    sync.RWMutex
	games map[string]string
}

func NewMemoryGameStore() *MemoryGameStore {
	return &MemoryGameStore{games: make(map[string]string)}
}

func (s *MemoryGameStore) Load(_ context.Context, roomCode string) (*models.Game, error) {
	s.mu.RLock()
	data, ok := s.games[gameKey(roomCode)]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", roomCode, err)
	}
	return &game, nil
}

func (s *MemoryGameStore) Save(_ context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", game.RoomCode, err)
	}

	s.mu.Lock()
	s.games[gameKey(game.RoomCode)] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *MemoryGameStore) ExistsRoomCode(_ context.Context, roomCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[gameKey(roomCode)]
	return ok, nil
}
