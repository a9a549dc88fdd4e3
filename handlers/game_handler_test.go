package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizroom/models"
	"quizroom/services"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.GameManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := services.NewGameManager(services.NewMemoryGameStore(), clockwork.NewFakeClock())
	handler := NewGameHandler(manager)

	router := gin.New()
	router.GET("/api/games/:roomCode", handler.GetGameByRoomCode)
	router.GET("/api/games/:roomCode/leaderboard", handler.GetLeaderboard)
	return router, manager
}

func TestGetGameByRoomCode(t *testing.T) {
	router, manager := newTestRouter(t)

	game, err := manager.CreateGame(context.Background(), "host-1", []models.Question{
		{ID: "q1", Text: "?", Answers: []string{"a", "b"}, CorrectAnswer: 0, TimeLimit: 30, Points: 100},
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games/"+game.RoomCode, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got models.Game
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.RoomCode != game.RoomCode || got.Status != models.GameStatusWaiting {
		t.Fatalf("unexpected game: %+v", got)
	}
}

func TestGetGameUnknownRoomCode(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games/NOSUCH", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetLeaderboardUnknownRoomIsEmptyList(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games/NOSUCH/leaderboard", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var leaderboard []models.LeaderboardEntry
	if err := json.Unmarshal(w.Body.Bytes(), &leaderboard); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(leaderboard) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(leaderboard))
	}
}

func TestGetLeaderboardOrdering(t *testing.T) {
	router, manager := newTestRouter(t)
	ctx := context.Background()

	game, _ := manager.CreateGame(ctx, "host-1", []models.Question{
		{ID: "q1", Text: "?", Answers: []string{"a", "b"}, CorrectAnswer: 1, TimeLimit: 30, Points: 100},
	})
	manager.AddPlayer(ctx, game.RoomCode, models.Player{ID: "p1", Name: "Alice"})
	manager.AddPlayer(ctx, game.RoomCode, models.Player{ID: "p2", Name: "Bob"})
	manager.StartGame(ctx, game.RoomCode)
	manager.SubmitAnswer(ctx, game.RoomCode, "p2", 1, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games/"+game.RoomCode+"/leaderboard", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var leaderboard []models.LeaderboardEntry
	if err := json.Unmarshal(w.Body.Bytes(), &leaderboard); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if leaderboard[0].ID != "p2" || leaderboard[1].ID != "p1" {
		t.Fatalf("unexpected order: %s then %s", leaderboard[0].ID, leaderboard[1].ID)
	}
}
