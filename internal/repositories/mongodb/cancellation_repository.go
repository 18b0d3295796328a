package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cancellationDoc struct {
	Pos            int    `bson:"pos"`
	RegistrationID string `bson:"registrationId"`
}

// CancellationRepository persists the day-of cancellation IDs in the
// cancellations collection.
type CancellationRepository struct {
	collection *mongo.Collection
}

// NewCancellationRepository creates a new CancellationRepository
func NewCancellationRepository(db *mongo.Database) *CancellationRepository {
	return &CancellationRepository{
		collection: db.Collection("cancellations"),
	}
}

// Load returns the persisted cancellation IDs in insertion order.
func (r *CancellationRepository) Load(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cancellations: %w", err)
	}
	var docs []cancellationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cancellations: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.RegistrationID)
	}
	return ids, nil
}

// Save replaces the collection contents with the given IDs.
func (r *CancellationRepository) Save(ctx context.Context, ids []string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear cancellations: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		docs = append(docs, cancellationDoc{Pos: i, RegistrationID: id})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert cancellations: %w", err)
	}
	return nil
}
