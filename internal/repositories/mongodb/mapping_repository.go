package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

type mappingDoc struct {
	Pos     int                  `bson:"pos"`
	Mapping models.WinnerMapping `bson:",inline"`
}

// MappingRepository persists the winner mapping table in the winner_mappings
// collection.
type MappingRepository struct {
	collection *mongo.Collection
}

// NewMappingRepository creates a new MappingRepository
func NewMappingRepository(db *mongo.Database) *MappingRepository {
	return &MappingRepository{
		collection: db.Collection("winner_mappings"),
	}
}

// Load returns the persisted mapping table in draw order, validated against
// the roster and catalog it was drawn from.
func (r *MappingRepository) Load(ctx context.Context, roster []models.Participant, catalog []models.Prize) ([]models.WinnerMapping, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find winner mappings: %w", err)
	}
	var docs []mappingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode winner mappings: %w", err)
	}

	knownPrizes := make(map[string]bool, len(catalog))
	for _, prize := range catalog {
		knownPrizes[prize.ID] = true
	}
	knownParticipants := make(map[string]bool, len(roster))
	for _, participant := range roster {
		knownParticipants[participant.RegistrationID] = true
	}

	mappings := make([]models.WinnerMapping, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		mapping := doc.Mapping
		if seen[mapping.PrizeID] {
			return nil, fmt.Errorf("winner mappings: %w: duplicate prize id %q",
				repositories.ErrCorruptState, mapping.PrizeID)
		}
		seen[mapping.PrizeID] = true
		if !knownPrizes[mapping.PrizeID] {
			return nil, fmt.Errorf("winner mappings: %w: unknown prize id %q",
				repositories.ErrCorruptState, mapping.PrizeID)
		}
		if !knownParticipants[mapping.ParticipantID] {
			return nil, fmt.Errorf("winner mappings: %w: unknown registration id %q",
				repositories.ErrCorruptState, mapping.ParticipantID)
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

// Save replaces the collection contents with the given mapping table.
func (r *MappingRepository) Save(ctx context.Context, mappings []models.WinnerMapping) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear winner mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(mappings))
	for i, mapping := range mappings {
		docs = append(docs, mappingDoc{Pos: i, Mapping: mapping})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert winner mappings: %w", err)
	}
	return nil
}
