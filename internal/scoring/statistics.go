package scoring

import (
	"sort"

	"grading-service/internal/models"
)

type QuestionDifficulty struct {
	QuestionID string  `json:"question_id"`
	Attempts   int     `json:"attempts"`
	Incorrect  int     `json:"incorrect"`
	WrongRate  float64 `json:"wrong_rate"`
}

type TestStatistics struct {
	CompletedAttempts int                  `json:"completed_attempts"`
	PassedAttempts    int                  `json:"passed_attempts"`
	PassRate          float64              `json:"pass_rate"`
	AverageScore      float64              `json:"average_score"`
	HardestQuestions  []QuestionDifficulty `json:"hardest_questions"`
}

// ComputeStatistics aggregates a test's completed attempts: pass rate, average
// score, and the questions answered wrong most often. hardestLimit caps the
// difficulty list; 0 means no cap.
func ComputeStatistics(attempts []models.TestAttempt, hardestLimit int) TestStatistics {
	stats := TestStatistics{}
	perQuestion := make(map[string]*QuestionDifficulty)
	scoreSum := 0

	for _, attempt := range attempts {
		if !attempt.IsCompleted {
			continue
		}
		stats.CompletedAttempts++
		if attempt.Passed != nil && *attempt.Passed {
			stats.PassedAttempts++
		}
		if attempt.Score != nil {
			scoreSum += *attempt.Score
		}
		for _, aq := range attempt.Questions {
			d, ok := perQuestion[aq.QuestionID]
			if !ok {
				d = &QuestionDifficulty{QuestionID: aq.QuestionID}
				perQuestion[aq.QuestionID] = d
			}
			d.Attempts++
			if !aq.IsCorrect {
				d.Incorrect++
			}
		}
	}

	if stats.CompletedAttempts > 0 {
		stats.PassRate = float64(stats.PassedAttempts) / float64(stats.CompletedAttempts)
		stats.AverageScore = float64(scoreSum) / float64(stats.CompletedAttempts)
	}

	for _, d := range perQuestion {
		d.WrongRate = float64(d.Incorrect) / float64(d.Attempts)
		stats.HardestQuestions = append(stats.HardestQuestions, *d)
	}
	sort.Slice(stats.HardestQuestions, func(i, j int) bool {
		a, b := stats.HardestQuestions[i], stats.HardestQuestions[j]
		if a.WrongRate != b.WrongRate {
			return a.WrongRate > b.WrongRate
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return a.QuestionID < b.QuestionID
	})
	if hardestLimit > 0 && len(stats.HardestQuestions) > hardestLimit {
		stats.HardestQuestions = stats.HardestQuestions[:hardestLimit]
	}
	return stats
}
