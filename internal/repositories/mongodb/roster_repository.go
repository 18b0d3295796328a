// Package mongodb implements the persistence repositories on MongoDB, one
// collection per list. Document order is preserved through a pos field so
// reloads keep the original import order.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

type rosterDoc struct {
	Pos         int                `bson:"pos"`
	Participant models.Participant `bson:",inline"`
}

// RosterRepository persists the participant roster in the participants
// collection.
type RosterRepository struct {
	collection *mongo.Collection
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *mongo.Database) *RosterRepository {
	return &RosterRepository{
		collection: db.Collection("participants"),
	}
}

// Load returns the persisted roster in import order.
func (r *RosterRepository) Load(ctx context.Context) ([]models.Participant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find participants: %w", err)
	}
	var docs []rosterDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	roster := make([]models.Participant, 0, len(docs))
	for _, doc := range docs {
		roster = append(roster, doc.Participant)
	}
	return roster, nil
}

// Save replaces the collection contents with the given roster.
func (r *RosterRepository) Save(ctx context.Context, roster []models.Participant) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear participants: %w", err)
	}
	if len(roster) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(roster))
	for i, participant := range roster {
		docs = append(docs, rosterDoc{Pos: i, Participant: participant})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert participants: %w", err)
	}
	return nil
}
