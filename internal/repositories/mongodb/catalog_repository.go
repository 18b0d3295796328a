package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

type catalogDoc struct {
	Pos   int          `bson:"pos"`
	Prize models.Prize `bson:",inline"`
}

// CatalogRepository persists the prize catalog in the prizes collection.
type CatalogRepository struct {
	collection *mongo.Collection
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		collection: db.Collection("prizes"),
	}
}

// Load returns the persisted catalog in import order.
func (r *CatalogRepository) Load(ctx context.Context) ([]models.Prize, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find prizes: %w", err)
	}
	var docs []catalogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode prizes: %w", err)
	}
	catalog := make([]models.Prize, 0, len(docs))
	for _, doc := range docs {
		catalog = append(catalog, doc.Prize)
	}
	return catalog, nil
}

// Save replaces the collection contents with the given catalog.
func (r *CatalogRepository) Save(ctx context.Context, catalog []models.Prize) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear prizes: %w", err)
	}
	if len(catalog) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(catalog))
	for i, prize := range catalog {
		docs = append(docs, catalogDoc{Pos: i, Prize: prize})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert prizes: %w", err)
	}
	return nil
}
