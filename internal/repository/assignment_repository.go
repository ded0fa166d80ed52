package repository

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssignmentRepository struct {
	BatchCol *mongo.Collection
	Col      *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{
		BatchCol: db.Collection("assignment_batches"),
		Col:      db.Collection("question_assignments"),
	}
}

// CreateBatch inserts the batch header. The unique index on
// (module_id, week_number) makes this the idempotency gate of a distribution
// run: a duplicate-key error means the batch already exists.
func (r *AssignmentRepository) CreateBatch(ctx context.Context, batch *models.AssignmentBatch) error {
	_, err := r.BatchCol.InsertOne(ctx, batch)
	return err
}

func (r *AssignmentRepository) FindBatch(ctx context.Context, moduleID string, weekNumber int) (*models.AssignmentBatch, error) {
	var batch models.AssignmentBatch
	err := r.BatchCol.FindOne(ctx, bson.M{"module_id": moduleID, "week_number": weekNumber}).Decode(&batch)
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.QuestionAssignment) error {
	_, err := r.Col.InsertOne(ctx, assignment)
	return err
}

func (r *AssignmentRepository) FindByBatch(ctx context.Context, batchID string) ([]models.QuestionAssignment, error) {
	return r.findMany(ctx, bson.M{"batch_id": batchID})
}

func (r *AssignmentRepository) FindByModuleAndUser(ctx context.Context, moduleID, userID string, weekNumber int) ([]models.QuestionAssignment, error) {
	return r.findMany(ctx, bson.M{
		"module_id":   moduleID,
		"assigned_to": userID,
		"week_number": weekNumber,
	})
}

// DeleteByModule cascades a module deletion into its batches and assignments.
func (r *AssignmentRepository) DeleteByModule(ctx context.Context, moduleID string) error {
	if _, err := r.Col.DeleteMany(ctx, bson.M{"module_id": moduleID}); err != nil {
		return err
	}
	_, err := r.BatchCol.DeleteMany(ctx, bson.M{"module_id": moduleID})
	return err
}

func (r *AssignmentRepository) findMany(ctx context.Context, filter bson.M) ([]models.QuestionAssignment, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var assignments []models.QuestionAssignment
	for cur.Next(ctx) {
		var a models.QuestionAssignment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
