package models

import "time"

type Test struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	Title               string    `bson:"title" json:"title"`
	TotalQuestions      int       `bson:"total_questions" json:"total_questions"`
	DateStart           time.Time `bson:"date_start" json:"date_start"`
	DateEnd             time.Time `bson:"date_end" json:"date_end"`
	TimeLimitMinutes    int       `bson:"time_limit_minutes" json:"time_limit_minutes"`
	SubjectID           string    `bson:"subject_id" json:"subject_id"`
	SelectedModuleIDs   []string  `bson:"selected_module_ids" json:"selected_module_ids"`
	CreatedBy           string    `bson:"created_by" json:"created_by"`
	MaxAttempts         int       `bson:"max_attempts" json:"max_attempts"`
	PassingScorePercent int       `bson:"passing_score_percent" json:"passing_score_percent"`
	IsPublished         bool      `bson:"is_published" json:"is_published"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
}

// InWindow reports whether the test accepts new attempts at the given time.
func (t *Test) InWindow(now time.Time) bool {
	return !now.Before(t.DateStart) && !now.After(t.DateEnd)
}

// TestPoolEntry is an explicit curation of a question into a test's pool,
// one entry per (test, question) pair. Curated questions are eligible even
// without peer validation.
type TestPoolEntry struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	TestID     string    `bson:"test_id" json:"test_id"`
	QuestionID string    `bson:"question_id" json:"question_id"`
	AddedBy    string    `bson:"added_by" json:"added_by"`
	AddedAt    time.Time `bson:"added_at" json:"added_at"`
}
