package scoring

import (
	"math"

	"grading-service/internal/models"
)

// GradeAttempt matches submitted answers against the attempt's question
// snapshot. An answer missing from the submission is treated as unanswered and
// therefore incorrect. Comparison against the correct option is case-sensitive
// and uses the option the question carries now, at submission time.
func GradeAttempt(snapshot []models.AttemptQuestion, answers map[string]string, correctByQuestion map[string]string) ([]models.AttemptQuestion, int) {
	graded := make([]models.AttemptQuestion, len(snapshot))
	correctCount := 0

	for i, aq := range snapshot {
		graded[i] = aq
		selected, answered := answers[aq.QuestionID]
		if !answered {
			graded[i].SelectedAnswer = nil
			graded[i].IsCorrect = false
			continue
		}
		sel := selected
		graded[i].SelectedAnswer = &sel
		graded[i].IsCorrect = selected == correctByQuestion[aq.QuestionID] && correctByQuestion[aq.QuestionID] != ""
		if graded[i].IsCorrect {
			correctCount++
		}
	}
	return graded, correctCount
}

// Score converts a correct-answer count to an integer percent with standard
// rounding.
func Score(correctCount, totalQuestions int) int {
	if totalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(correctCount) / float64(totalQuestions) * 100))
}

// Passed applies the passing threshold; a tie at the threshold passes.
func Passed(score, passingScorePercent int) bool {
	return score >= passingScorePercent
}
