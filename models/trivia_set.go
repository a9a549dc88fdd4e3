package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

type TriviaSet struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Difficulty  string         `json:"difficulty" gorm:"not null;default:'medium'"` // easy, medium, hard
	CreatedBy   uint           `json:"created_by"`
	IsPublic    bool           `json:"is_public" gorm:"not null;default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []TriviaQuestion `json:"questions,omitempty" gorm:"foreignKey:TriviaSetID"`
}

type TriviaQuestion struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	TriviaSetID   uint           `json:"trivia_set_id" gorm:"not null"`
	Text          string         `json:"text" gorm:"not null"`
	CorrectAnswer int            `json:"correct_answer" gorm:"not null"`
	TimeLimit     int            `json:"time_limit" gorm:"not null;default:30"` // seconds
	Points        int            `json:"points" gorm:"not null;default:100"`
	Order         int            `json:"order" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	TriviaSet TriviaSet      `json:"trivia_set,omitempty"`
	Answers   []AnswerOption `json:"answers,omitempty" gorm:"foreignKey:TriviaQuestionID"`
}

type AnswerOption struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	TriviaQuestionID uint           `json:"trivia_question_id" gorm:"not null"`
	Text             string         `json:"text" gorm:"not null"`
	Order            int            `json:"order" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// GameQuestions converts the set's stored questions into the immutable
// in-game form frozen into a Game aggregate at creation. Questions and
// answers are assumed preloaded in order.
func (ts *TriviaSet) GameQuestions() []Question {
	questions := make([]Question, 0, len(ts.Questions))
	for _, tq := range ts.Questions {
		answers := make([]string, 0, len(tq.Answers))
		for _, a := range tq.Answers {
			answers = append(answers, a.Text)
		}
		questions = append(questions, Question{
			ID:            "q-" + strconv.FormatUint(uint64(tq.ID), 10),
			Text:          tq.Text,
			Answers:       answers,
			CorrectAnswer: tq.CorrectAnswer,
			TimeLimit:     tq.TimeLimit,
			Points:        tq.Points,
		})
	}
	return questions
}
