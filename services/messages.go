package services

import (
	"errors"

	"quizroom/models"
)

// Inbound event names carried over the websocket.
const (
	EventCreateGame         = "create-game"
	EventJoinGame           = "join-game"
	EventLeaveGame          = "leave-game"
	EventStartGame          = "start-game"
	EventSubmitAnswer       = "submit-answer"
	EventNextQuestion       = "next-question"
	EventGetLeaderboard     = "get-leaderboard"
	EventGetCurrentQuestion = "get-current-question"
)

// Outbound event names.
const (
	EventGameCreated       = "game-created"
	EventJoinedGame        = "joined-game"
	EventPlayerJoined      = "player-joined"
	EventPlayerLeft        = "player-left"
	EventGameStarted       = "game-started"
	EventAnswerResult      = "answer-result"
	EventGameFinished      = "game-finished"
	EventLeaderboardUpdate = "leaderboard-update"
	EventCurrentQuestion   = "current-question"
	EventError             = "error"
)

// Inbound payload schemas, validated at the boundary before any game
// operation runs.

type CreateGameMessage struct {
	HostID      string            `json:"host_id"`
	TriviaSetID uint              `json:"trivia_set_id"`
	Questions   []models.Question `json:"questions"`
}

func (m *CreateGameMessage) Validate() error {
	if m.HostID == "" {
		return errors.New("host_id is required")
	}
	if m.TriviaSetID == 0 && len(m.Questions) == 0 {
		return errors.New("either trivia_set_id or questions is required")
	}
	return nil
}

type JoinGameMessage struct {
	RoomCode string        `json:"room_code"`
	Player   models.Player `json:"player"`
}

func (m *JoinGameMessage) Validate() error {
	if m.RoomCode == "" {
		return errors.New("room_code is required")
	}
	if m.Player.ID == "" || m.Player.Name == "" {
		return errors.New("player id and name are required")
	}
	return nil
}

type LeaveGameMessage struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

func (m *LeaveGameMessage) Validate() error {
	if m.RoomCode == "" || m.PlayerID == "" {
		return errors.New("room_code and player_id are required")
	}
	return nil
}

// RoomMessage covers the events that only carry a room code: start-game,
// next-question and get-leaderboard.
type RoomMessage struct {
	RoomCode string `json:"room_code"`
}

func (m *RoomMessage) Validate() error {
	if m.RoomCode == "" {
		return errors.New("room_code is required")
	}
	return nil
}

type SubmitAnswerMessage struct {
	RoomCode       string  `json:"room_code"`
	PlayerID       string  `json:"player_id"`
	AnswerIndex    int     `json:"answer_index"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

func (m *SubmitAnswerMessage) Validate() error {
	if m.RoomCode == "" || m.PlayerID == "" {
		return errors.New("room_code and player_id are required")
	}
	if m.AnswerIndex < 0 {
		return errors.New("answer_index must not be negative")
	}
	return nil
}

// Outbound payload schemas.

// QuestionPayload is what players see while a question is live: the correct
// answer index is never included.
type QuestionPayload struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Answers        []string `json:"answers"`
	TimeLimit      int      `json:"time_limit"`
	QuestionNumber int      `json:"question_number"`
	TotalQuestions int      `json:"total_questions"`
}

func questionPayload(game *models.Game, q *models.Question) QuestionPayload {
	return QuestionPayload{
		ID:             q.ID,
		Text:           q.Text,
		Answers:        q.Answers,
		TimeLimit:      q.TimeLimit,
		QuestionNumber: game.CurrentQuestionIndex + 1,
		TotalQuestions: len(game.Questions),
	}
}

type GameCreatedPayload struct {
	RoomCode string       `json:"room_code"`
	Game     *models.Game `json:"game"`
}

type JoinedGamePayload struct {
	Game *models.Game `json:"game"`
}

type PlayerJoinedPayload struct {
	Player  models.Player   `json:"player"`
	Players []models.Player `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerID string          `json:"player_id"`
	Players  []models.Player `json:"players"`
}

type GameStartedPayload struct {
	Game     *models.Game    `json:"game"`
	Question QuestionPayload `json:"question"`
}

type NextQuestionPayload struct {
	Question QuestionPayload `json:"question"`
}

type AnswerResultPayload struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points"`
}

type GameFinishedPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type LeaderboardPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

// CurrentQuestionPayload resyncs a reconnecting player mid-game; unlike the
// live broadcast it includes the correct answer index.
type CurrentQuestionPayload struct {
	QuestionPayload
	CorrectAnswer int `json:"correct_answer"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
