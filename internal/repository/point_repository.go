package repository

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PointRepository struct {
	Col *mongo.Collection
}

func NewPointRepository(db *mongo.Database) *PointRepository {
	return &PointRepository{Col: db.Collection("points")}
}

func (r *PointRepository) Create(ctx context.Context, point *models.Point) error {
	_, err := r.Col.InsertOne(ctx, point)
	return err
}

func (r *PointRepository) FindByID(ctx context.Context, id string) (*models.Point, error) {
	var point models.Point
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&point)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *PointRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Point, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var points []models.Point
	for cur.Next(ctx) {
		var p models.Point
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// CountAutoGrants counts the automatic shortage grants a student received for
// a module's validation week.
func (r *PointRepository) CountAutoGrants(ctx context.Context, studentID, moduleID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"student_id":          studentID,
		"category":            models.CategoryQuestionValidation,
		"related_entity.type": "module",
		"related_entity.id":   moduleID,
	})
}

// FindAutoGrants returns the automatic shortage grants of a module's
// validation week, for every student.
func (r *PointRepository) FindAutoGrants(ctx context.Context, moduleID string) ([]models.Point, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"category":            models.CategoryQuestionValidation,
		"related_entity.type": "module",
		"related_entity.id":   moduleID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var points []models.Point
	for cur.Next(ctx) {
		var p models.Point
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Update edits a single grant. Callers restrict the update document to the
// mutable fields; student and category never change.
func (r *PointRepository) Update(ctx context.Context, id string, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *PointRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
