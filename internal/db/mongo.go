package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

func InitMongo(uri string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	Client = client
	log.Println("Connected to MongoDB")
}

// EnsureIndexes creates the constraints the engine's idempotency relies on:
// one distribution batch per (module, week), one pool entry per
// (test, question), and one in-flight attempt per (test, user).
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("assignment_batches").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "module_id", Value: 1}, {Key: "week_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("test_pool_entries").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "test_id", Value: 1}, {Key: "question_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("test_attempts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "test_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_completed": false}),
	})
	return err
}
