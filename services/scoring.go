package services

import (
	"math"

	"quizroom/models"
)

// scoreAnswer maps a submission to the points it earns. Wrong answers score
// zero. A correct answer earns at least half the question's base points, up
// to the full amount for an instantaneous answer; elapsed time beyond the
// limit clamps the bonus to zero rather than going negative.
func scoreAnswer(question *models.Question, answerIndex int, elapsedSeconds float64) (correct bool, points int) {
	if answerIndex != question.CorrectAnswer {
		return false, 0
	}

	timeBonus := 0.0
	if question.TimeLimit > 0 {
		timeBonus = 1 - elapsedSeconds/float64(question.TimeLimit)
	}
	if timeBonus < 0 {
		timeBonus = 0
	}
	if timeBonus > 1 {
		timeBonus = 1
	}

	return true, int(math.Round(float64(question.Points) * (0.5 + 0.5*timeBonus)))
}
