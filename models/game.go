package models

import "time"

// Game statuses. Transitions are one-directional:
// waiting -> playing -> finished.
const (
	GameStatusWaiting  = "waiting"
	GameStatusPlaying  = "playing"
	GameStatusFinished = "finished"
)

// Game is the aggregate for one live room, stored as JSON in the game store
// keyed by room code.
type Game struct {
	RoomCode             string     `json:"room_code"`
	HostID               string     `json:"host_id"`
	Status               string     `json:"status"`
	Players              []Player   `json:"players"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	FinishedAt           *time.Time `json:"finished_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// CurrentQuestion returns the active question, or nil when no question is
// active (before start).
func (g *Game) CurrentQuestion() *Question {
	if g.CurrentQuestionIndex < 0 || g.CurrentQuestionIndex >= len(g.Questions) {
		return nil
	}
	return &g.Questions[g.CurrentQuestionIndex]
}

// FindPlayer returns the player with the given id, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}
