package repository

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TestRepository struct {
	Col     *mongo.Collection
	PoolCol *mongo.Collection
}

func NewTestRepository(db *mongo.Database) *TestRepository {
	return &TestRepository{
		Col:     db.Collection("tests"),
		PoolCol: db.Collection("test_pool_entries"),
	}
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*models.Test, error) {
	var test models.Test
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&test)
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) Create(ctx context.Context, test *models.Test) error {
	_, err := r.Col.InsertOne(ctx, test)
	return err
}

func (r *TestRepository) Update(ctx context.Context, id string, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddPoolEntry curates a question into the test's pool. The unique index on
// (test_id, question_id) rejects a second curation of the same pair.
func (r *TestRepository) AddPoolEntry(ctx context.Context, entry *models.TestPoolEntry) error {
	_, err := r.PoolCol.InsertOne(ctx, entry)
	return err
}

func (r *TestRepository) RemovePoolEntry(ctx context.Context, testID, questionID string) error {
	res, err := r.PoolCol.DeleteOne(ctx, bson.M{"test_id": testID, "question_id": questionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindPoolEntries returns the curated entries in curation order.
func (r *TestRepository) FindPoolEntries(ctx context.Context, testID string) ([]models.TestPoolEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cur, err := r.PoolCol.Find(ctx, bson.M{"test_id": testID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.TestPoolEntry
	for cur.Next(ctx) {
		var e models.TestPoolEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
