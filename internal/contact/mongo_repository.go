package contact

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) MessageRepository {
	return &mongoRepository{collection: db.Collection("contact_messages")}
}

func (m *mongoRepository) Insert(ctx context.Context, msg *Message) (string, error) {
	doc := bson.M{
		"name":       msg.Name,
		"phone":      msg.Phone,
		"message":    msg.Message,
		"created_at": msg.CreatedAt,
	}
	if msg.Email != "" {
		doc["email"] = msg.Email
	}

	res, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert contact message: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return oid.Hex(), nil
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}
