package models

import "time"

// AssignmentBatch is the idempotency anchor for a distribution run. A unique
// index on (module_id, week_number) guarantees at most one batch per module
// and week; re-running the distributor returns the stored batch.
type AssignmentBatch struct {
	ID              string    `bson:"_id" json:"id"`
	ModuleID        string    `bson:"module_id" json:"module_id"`
	WeekNumber      int       `bson:"week_number" json:"week_number"`
	AssignmentCount int       `bson:"assignment_count" json:"assignment_count"`
	AutoGrantCount  int       `bson:"auto_grant_count" json:"auto_grant_count"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// QuestionAssignment says "assigned_to must peer-review question_id this week".
// Assignments are write-once; they are removed only when their module goes away.
type QuestionAssignment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	BatchID    string    `bson:"batch_id" json:"batch_id"`
	QuestionID string    `bson:"question_id" json:"question_id"`
	AssignedTo string    `bson:"assigned_to" json:"assigned_to"`
	ModuleID   string    `bson:"module_id" json:"module_id"`
	WeekNumber int       `bson:"week_number" json:"week_number"`
	AssignedAt time.Time `bson:"assigned_at" json:"assigned_at"`
}
