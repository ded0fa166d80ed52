package service

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Store interfaces over the repository layer. The concrete repository types
// satisfy them; service tests substitute in-memory implementations that keep
// the same uniqueness and conditional-update semantics.

type QuestionStore interface {
	FindAll(ctx context.Context) ([]models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	FindByModule(ctx context.Context, moduleID string) ([]models.Question, error)
	FindValidatedByModules(ctx context.Context, moduleIDs []string) ([]models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	ClaimPointsFlag(ctx context.Context, id, flag string) (bool, error)
}

type PointStore interface {
	Create(ctx context.Context, point *models.Point) error
	FindByID(ctx context.Context, id string) (*models.Point, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Point, error)
	FindAutoGrants(ctx context.Context, moduleID string) ([]models.Point, error)
	CountAutoGrants(ctx context.Context, studentID, moduleID string) (int64, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type AssignmentStore interface {
	CreateBatch(ctx context.Context, batch *models.AssignmentBatch) error
	FindBatch(ctx context.Context, moduleID string, weekNumber int) (*models.AssignmentBatch, error)
	Create(ctx context.Context, assignment *models.QuestionAssignment) error
	FindByBatch(ctx context.Context, batchID string) ([]models.QuestionAssignment, error)
	FindByModuleAndUser(ctx context.Context, moduleID, userID string, weekNumber int) ([]models.QuestionAssignment, error)
	DeleteByModule(ctx context.Context, moduleID string) error
}

type TestStore interface {
	FindByID(ctx context.Context, id string) (*models.Test, error)
	Create(ctx context.Context, test *models.Test) error
	Update(ctx context.Context, id string, update bson.M) error
	AddPoolEntry(ctx context.Context, entry *models.TestPoolEntry) error
	RemovePoolEntry(ctx context.Context, testID, questionID string) error
	FindPoolEntries(ctx context.Context, testID string) ([]models.TestPoolEntry, error)
}

type AttemptStore interface {
	FindByID(ctx context.Context, id string) (*models.TestAttempt, error)
	Create(ctx context.Context, attempt *models.TestAttempt) error
	FindInProgress(ctx context.Context, testID, userID string) (*models.TestAttempt, error)
	CountCompleted(ctx context.Context, testID, userID string) (int64, error)
	Complete(ctx context.Context, id string, update bson.M) (bool, error)
	FindCompletedByTest(ctx context.Context, testID string) ([]models.TestAttempt, error)
}
