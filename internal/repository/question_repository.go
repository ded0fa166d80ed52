package repository

import (
	"context"

	"grading-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]models.Question, error) {
	return r.findMany(ctx, bson.M{"status": bson.M{"$ne": models.QuestionStatusDeleted}})
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// FindByModule returns the module's live question pool.
func (r *QuestionRepository) FindByModule(ctx context.Context, moduleID string) ([]models.Question, error) {
	return r.findMany(ctx, bson.M{
		"module_id": moduleID,
		"status":    bson.M{"$ne": models.QuestionStatusDeleted},
	})
}

// FindValidatedByModules returns all peer-validated questions belonging to the
// given modules, the module half of a test's eligible pool.
func (r *QuestionRepository) FindValidatedByModules(ctx context.Context, moduleIDs []string) ([]models.Question, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{
		"module_id":      bson.M{"$in": moduleIDs},
		"peer_validated": true,
		"status":         bson.M{"$ne": models.QuestionStatusDeleted},
	})
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// Delete soft-deletes: the document stays for attempts and assignments that
// still reference it, but leaves every pool.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": models.QuestionStatusDeleted}})
	return err
}

// ClaimPointsFlag flips points_awarded.<flag> from false to true and reports
// whether this caller won the flip. The conditional filter makes the
// flip-then-grant sequence safe against a concurrent duplicate request.
func (r *QuestionRepository) ClaimPointsFlag(ctx context.Context, id, flag string) (bool, error) {
	field := "points_awarded." + flag
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": id, field: false},
		bson.M{"$set": bson.M{field: true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *QuestionRepository) findMany(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
