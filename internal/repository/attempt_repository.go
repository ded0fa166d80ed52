package repository

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("test_attempts")}
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Create inserts a new attempt. The partial unique index on
// (test_id, user_id, is_completed: false) turns a concurrent double start
// into a duplicate-key error; the caller resumes the existing attempt instead.
func (r *AttemptRepository) Create(ctx context.Context, attempt *models.TestAttempt) error {
	_, err := r.Col.InsertOne(ctx, attempt)
	return err
}

func (r *AttemptRepository) FindInProgress(ctx context.Context, testID, userID string) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	err := r.Col.FindOne(ctx, bson.M{
		"test_id":      testID,
		"user_id":      userID,
		"is_completed": false,
	}).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountCompleted(ctx context.Context, testID, userID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"test_id":      testID,
		"user_id":      userID,
		"is_completed": true,
	})
}

// Complete writes the terminal state of an attempt. The is_completed: false
// filter makes completion single-shot: a second submission matches nothing.
func (r *AttemptRepository) Complete(ctx context.Context, id string, update bson.M) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": id, "is_completed": false},
		bson.M{"$set": update},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *AttemptRepository) FindCompletedByTest(ctx context.Context, testID string) ([]models.TestAttempt, error) {
	cur, err := r.Col.Find(ctx, bson.M{"test_id": testID, "is_completed": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.TestAttempt
	for cur.Next(ctx) {
		var a models.TestAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
