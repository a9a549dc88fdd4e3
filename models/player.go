package models

// Player is embedded in a Game. AnsweredQuestions holds the ids of questions
// this player has already been scored for; each id appears at most once.
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Avatar            string   `json:"avatar,omitempty"`
	Score             int      `json:"score"`
	AnsweredQuestions []string `json:"answered_questions"`
}

// HasAnswered reports whether the player was already scored for a question.
func (p *Player) HasAnswered(questionID string) bool {
	for _, id := range p.AnsweredQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one row of a game's leaderboard.
type LeaderboardEntry struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Score             int      `json:"score"`
	Avatar            string   `json:"avatar,omitempty"`
	AnsweredQuestions []string `json:"answered_questions"`
}
