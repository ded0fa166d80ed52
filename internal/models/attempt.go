package models

import "time"

type AttemptQuestion struct {
	QuestionID       string  `bson:"question_id" json:"question_id"`
	SelectedAnswer   *string `bson:"selected_answer" json:"selected_answer"`
	IsCorrect        bool    `bson:"is_correct" json:"is_correct"`
	TimeSpentSeconds int     `bson:"time_spent_seconds" json:"time_spent_seconds"`
}

// TestAttempt is one student's run at a test. At most one attempt per
// (test, user) may be in flight, enforced by a partial unique index on
// is_completed: false. Once completed the document is never written again.
type TestAttempt struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	TestID      string            `bson:"test_id" json:"test_id"`
	UserID      string            `bson:"user_id" json:"user_id"`
	Questions   []AttemptQuestion `bson:"questions" json:"questions"`
	StartedAt   time.Time         `bson:"started_at" json:"started_at"`
	SubmittedAt *time.Time        `bson:"submitted_at" json:"submitted_at"`
	Score       *int              `bson:"score" json:"score"`
	Passed      *bool             `bson:"passed" json:"passed"`
	IsCompleted bool              `bson:"is_completed" json:"is_completed"`
}
