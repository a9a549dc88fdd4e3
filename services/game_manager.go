package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"quizroom/models"

	"github.com/jonboulle/clockwork"
)

// Expected rejections. These are normal control flow for callers, checked
// with errors.Is; anything else returned by the manager is a store fault.
var (
	ErrRoomNotFound      = errors.New("game not found")
	ErrEmptyQuestions    = errors.New("question list must not be empty")
	ErrGameNotJoinable   = errors.New("game not accepting players")
	ErrGameNotStartable  = errors.New("game cannot be started")
	ErrGameNotPlaying    = errors.New("game is not in progress")
	ErrPlayerNotFound    = errors.New("player not in game")
	ErrNoCurrentQuestion = errors.New("no active question")
	ErrAlreadyAnswered   = errors.New("answer already submitted")
)

// GameManager runs transactional operations over a single Game aggregate.
// Each operation is a read-check-mutate-write unit serialized per room code.
type GameManager struct {
	store GameStore
	clock clockwork.Clock

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewGameManager(store GameStore, clock clockwork.Clock) *GameManager {
	return &GameManager{
		store:     store,
		clock:     clock,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

// lockRoom serializes read-modify-write cycles for one room code.
func (m *GameManager) lockRoom(roomCode string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.roomLocks[roomCode]
	if !ok {
		lock = &sync.Mutex{}
		m.roomLocks[roomCode] = lock
	}
	return lock
}

// CreateGame allocates a unique room code and stores a fresh waiting game.
func (m *GameManager) CreateGame(ctx context.Context, hostID string, questions []models.Question) (*models.Game, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestions
	}

	roomCode, err := generateRoomCode(ctx, m.store)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		RoomCode:             roomCode,
		HostID:               hostID,
		Status:               models.GameStatusWaiting,
		Players:              []models.Player{},
		Questions:            questions,
		CurrentQuestionIndex: -1,
		CreatedAt:            m.clock.Now(),
	}

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetGame loads a game by room code.
func (m *GameManager) GetGame(ctx context.Context, roomCode string) (*models.Game, error) {
	game, err := m.store.Load(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrRoomNotFound
	}
	return game, nil
}

// AddPlayer adds a player to a waiting game. Joining twice with the same
// player id returns the current state unchanged.
func (m *GameManager) AddPlayer(ctx context.Context, roomCode string, player models.Player) (*models.Game, error) {
	lock := m.lockRoom(roomCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := m.GetGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusWaiting {
		return nil, ErrGameNotJoinable
	}

	if game.FindPlayer(player.ID) != nil {
		return game, nil
	}

	player.Score = 0
	if player.AnsweredQuestions == nil {
		player.AnsweredQuestions = []string{}
	}
	game.Players = append(game.Players, player)

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// RemovePlayer removes a player unconditionally, regardless of game status.
func (m *GameManager) RemovePlayer(ctx context.Context, roomCode, playerID string) (*models.Game, error) {
	lock := m.lockRoom(roomCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := m.GetGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	players := game.Players[:0]
	for _, p := range game.Players {
		if p.ID != playerID {
			players = append(players, p)
		}
	}
	game.Players = players

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// StartGame moves a waiting game with at least one player into play at
// question 0.
func (m *GameManager) StartGame(ctx context.Context, roomCode string) (*models.Game, error) {
	lock := m.lockRoom(roomCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := m.GetGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusWaiting || len(game.Players) == 0 {
		return nil, ErrGameNotStartable
	}

	now := m.clock.Now()
	game.Status = models.GameStatusPlaying
	game.StartedAt = &now
	game.CurrentQuestionIndex = 0

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// AnswerResult is the outcome of an accepted answer submission.
type AnswerResult struct {
	Correct bool
	Points  int
	Game    *models.Game
}

// SubmitAnswer scores a player's answer for the current question. A second
// submission for the same question is rejected with ErrAlreadyAnswered and
// leaves the aggregate untouched. Scoring and the answered-question record
// are persisted together or not at all.
func (m *GameManager) SubmitAnswer(ctx context.Context, roomCode, playerID string, answerIndex int, elapsedSeconds float64) (*AnswerResult, error) {
	lock := m.lockRoom(roomCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := m.GetGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusPlaying {
		return nil, ErrGameNotPlaying
	}

	question := game.CurrentQuestion()
	if question == nil {
		return nil, ErrNoCurrentQuestion
	}

	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if player.HasAnswered(question.ID) {
		return nil, ErrAlreadyAnswered
	}

	correct, points := scoreAnswer(question, answerIndex, elapsedSeconds)
	player.Score += points
	player.AnsweredQuestions = append(player.AnsweredQuestions, question.ID)

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return &AnswerResult{Correct: correct, Points: points, Game: game}, nil
}

// AdvanceQuestion increments the current question index. Stepping past the
// last question finishes the game and clamps the index to the last valid
// value. The index never decreases; a finished game is never mutated again.
func (m *GameManager) AdvanceQuestion(ctx context.Context, roomCode string) (*models.Game, error) {
	lock := m.lockRoom(roomCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := m.GetGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusPlaying {
		return nil, ErrGameNotPlaying
	}

	game.CurrentQuestionIndex++
	if game.CurrentQuestionIndex >= len(game.Questions) {
		now := m.clock.Now()
		game.Status = models.GameStatusFinished
		game.FinishedAt = &now
		game.CurrentQuestionIndex = len(game.Questions) - 1
	}

	if err := m.store.Save(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Leaderboard returns players sorted by score descending, ties broken by
// join order. An unknown room code yields an empty slice, not an error.
func (m *GameManager) Leaderboard(ctx context.Context, roomCode string) ([]models.LeaderboardEntry, error) {
	game, err := m.store.Load(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return []models.LeaderboardEntry{}, nil
	}

	entries := make([]models.LeaderboardEntry, 0, len(game.Players))
	for _, p := range game.Players {
		entries = append(entries, models.LeaderboardEntry{
			ID:                p.ID,
			Name:              p.Name,
			Score:             p.Score,
			Avatar:            p.Avatar,
			AnsweredQuestions: p.AnsweredQuestions,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}
