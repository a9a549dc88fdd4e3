package services

import (
	"context"
	"strings"
	"testing"

	"quizroom/models"
)

func TestRandomRoomCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := randomRoomCode()
		if err != nil {
			t.Fatalf("random room code: %v", err)
		}
		if len(code) != roomCodeLength {
			t.Fatalf("expected %d characters, got %q", roomCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(roomCodeChars, r) {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
	}
}

func TestGenerateRoomCodeUniqueAcrossRooms(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGameStore()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateRoomCode(ctx, store)
		if err != nil {
			t.Fatalf("generate room code: %v", err)
		}
		if seen[code] {
			t.Fatalf("room code %q allocated twice", code)
		}
		seen[code] = true

		// Track the code so later allocations must avoid it.
		if err := store.Save(ctx, &models.Game{RoomCode: code}); err != nil {
			t.Fatalf("save game: %v", err)
		}
	}
}

// collidingStore reports every code as taken a fixed number of times before
// giving way, to exercise the retry loop.
type collidingStore struct {
	GameStore
	collisions int
}

func (s *collidingStore) ExistsRoomCode(ctx context.Context, code string) (bool, error) {
	if s.collisions > 0 {
		s.collisions--
		return true, nil
	}
	return false, nil
}

func TestGenerateRoomCodeRetriesOnCollision(t *testing.T) {
	store := &collidingStore{GameStore: NewMemoryGameStore(), collisions: 3}

	code, err := generateRoomCode(context.Background(), store)
	if err != nil {
		t.Fatalf("generate room code: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code after retries")
	}
	if store.collisions != 0 {
		t.Fatalf("expected all collisions consumed, %d left", store.collisions)
	}
}

func TestGenerateRoomCodeGivesUpEventually(t *testing.T) {
	store := &collidingStore{GameStore: NewMemoryGameStore(), collisions: maxRoomCodeAttempts + 1}

	if _, err := generateRoomCode(context.Background(), store); err == nil {
		t.Fatal("expected an error when every code collides")
	}
}
