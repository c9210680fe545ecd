package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by services and indexes.
const (
	ListingsCollection     = "listings"
	FieldConfigsCollection = "field_configs"
)

// EnsureIndexes creates the indexes the services rely on. Creating an
// existing index is a no-op in MongoDB, so this runs on every start.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	listingIndexes := []mongo.IndexModel{
		{
			// Host dashboard: listings of one host, newest first.
			Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "updated_at", Value: -1}},
		},
		{
			// Public search, paginated on published_date + _id.
			Keys: bson.D{{Key: "kind", Value: 1}, {Key: "status", Value: 1}, {Key: "published_date", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "destination", Value: 1}},
		},
	}
	if _, err := database.Collection(ListingsCollection).Indexes().CreateMany(ctx, listingIndexes); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}

	fieldConfigIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "kind", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := database.Collection(FieldConfigsCollection).Indexes().CreateOne(ctx, fieldConfigIndex); err != nil {
		return fmt.Errorf("failed to create field config index: %w", err)
	}

	log.Println("MongoDB indexes ensured.")
	return nil
}
