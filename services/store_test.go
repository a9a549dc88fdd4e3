package services

import (
	"context"
	"testing"

	"quizroom/models"
)

func TestMemoryGameStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGameStore()

	game := &models.Game{
		RoomCode:             "ABC123",
		HostID:               "host-1",
		Status:               models.GameStatusWaiting,
		Players:              []models.Player{{ID: "p1", Name: "Alice", AnsweredQuestions: []string{}}},
		Questions:            []models.Question{{ID: "q1", Text: "?", Answers: []string{"a", "b"}, TimeLimit: 30, Points: 100}},
		CurrentQuestionIndex: -1,
	}

	if err := store.Save(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "ABC123")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected game, got nil")
	}
	if loaded.RoomCode != "ABC123" || loaded.HostID != "host-1" {
		t.Fatalf("unexpected game: %+v", loaded)
	}
	if len(loaded.Players) != 1 || loaded.Players[0].Name != "Alice" {
		t.Fatalf("players not preserved: %+v", loaded.Players)
	}
	if loaded.CurrentQuestionIndex != -1 {
		t.Fatalf("expected index -1, got %d", loaded.CurrentQuestionIndex)
	}
}

func TestMemoryGameStoreLoadIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGameStore()

	if err := store.Save(ctx, &models.Game{RoomCode: "ABC123"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "abc123")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected lowercase lookup to find the game")
	}
}

func TestMemoryGameStoreAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGameStore()

	game, err := store.Load(ctx, "NOSUCH")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if game != nil {
		t.Fatalf("expected nil for unknown room, got %+v", game)
	}

	exists, err := store.ExistsRoomCode(ctx, "NOSUCH")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected unknown room code to not exist")
	}
}
