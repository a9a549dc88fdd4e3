package services

import (
	"context"
	"errors"
	"fmt"

	"quizroom/models"

	"gorm.io/gorm"
)

type TriviaService struct {
	db *gorm.DB
}

func NewTriviaService(db *gorm.DB) *TriviaService {
	return &TriviaService{db: db}
}

type CreateTriviaSetRequest struct {
	Name        string                        `json:"name" binding:"required"`
	Description string                        `json:"description"`
	Category    string                        `json:"category"`
	Difficulty  string                        `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	IsPublic    *bool                         `json:"is_public"`
	Questions   []CreateTriviaQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateTriviaQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Answers       []string `json:"answers" binding:"required,min=2,max=6"`
	CorrectAnswer int      `json:"correct_answer"`
	TimeLimit     int      `json:"time_limit" binding:"required,min=5,max=300"`
	Points        int      `json:"points" binding:"required,min=1"`
}

// validateTriviaSet covers what binding tags cannot express.
func validateTriviaSet(req *CreateTriviaSetRequest) error {
	for i, q := range req.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Answers) {
			return fmt.Errorf("question %d: correct_answer must index into answers", i+1)
		}
	}
	return nil
}

func (s *TriviaService) CreateTriviaSet(adminID uint, req *CreateTriviaSetRequest) (*models.TriviaSet, error) {
	if err := validateTriviaSet(req); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	set := models.TriviaSet{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  difficulty,
		CreatedBy:   adminID,
		IsPublic:    isPublic,
	}

	if err := tx.Create(&set).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, qReq := range req.Questions {
		question := models.TriviaQuestion{
			TriviaSetID:   set.ID,
			Text:          qReq.Text,
			CorrectAnswer: qReq.CorrectAnswer,
			TimeLimit:     qReq.TimeLimit,
			Points:        qReq.Points,
			Order:         i + 1,
		}

		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for j, text := range qReq.Answers {
			answer := models.AnswerOption{
				TriviaQuestionID: question.ID,
				Text:             text,
				Order:            j + 1,
			}
			if err := tx.Create(&answer).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetTriviaSetByID(set.ID)
}

func (s *TriviaService) GetPublicTriviaSets() ([]models.TriviaSet, error) {
	var sets []models.TriviaSet
	err := s.db.Where("is_public = ?", true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("trivia_questions.\"order\" ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.\"order\" ASC")
		}).
		Find(&sets).Error
	return sets, err
}

func (s *TriviaService) GetTriviaSetByID(id uint) (*models.TriviaSet, error) {
	var set models.TriviaSet
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("trivia_questions.\"order\" ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.\"order\" ASC")
		}).
		First(&set, id).Error
	if err != nil {
		return nil, errors.New("trivia set not found")
	}
	return &set, nil
}

// GameQuestions freezes a trivia set into the immutable in-game question
// list used by new rooms.
func (s *TriviaService) GameQuestions(_ context.Context, triviaSetID uint) ([]models.Question, error) {
	set, err := s.GetTriviaSetByID(triviaSetID)
	if err != nil {
		return nil, err
	}
	questions := set.GameQuestions()
	if len(questions) == 0 {
		return nil, errors.New("trivia set has no questions")
	}
	return questions, nil
}
