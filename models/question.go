package models

// Question is embedded in a Game and immutable once the game is created.
// CorrectAnswer is an index into Answers.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correct_answer"`
	TimeLimit     int      `json:"time_limit"` // seconds
	Points        int      `json:"points"`
}
