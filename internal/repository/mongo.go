package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoSlot stores one document per key. Saves are single-document upserts,
// so readers see either the old or the new value.
type MongoSlot struct {
	collection *mongo.Collection
}

// ConnectMongo dials uri and returns the named database once the primary
// answers a ping. The caller owns the client.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetAppName("cleanshop-cart").
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(3*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), nil
}

func NewMongoSlot(db *mongo.Database) *MongoSlot {
	return &MongoSlot{
		collection: db.Collection("cart_slots"),
	}
}

func (m *MongoSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var doc slotDocument

	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return []byte(doc.Value), nil
}

func (m *MongoSlot) Save(ctx context.Context, key string, data []byte) error {
	update := bson.M{
		"$set": bson.M{
			"value":      string(data),
			"updated_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert slot: %w", err)
	}
	return nil
}

func (m *MongoSlot) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}
