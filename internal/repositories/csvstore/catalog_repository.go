package csvstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tenkey-events/raffle-backend/internal/csvparse"
	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

// CatalogRepository persists the prize catalog as prizes.csv.
type CatalogRepository struct {
	store *Store
}

// NewCatalogRepository creates a CatalogRepository backed by the given store.
func NewCatalogRepository(store *Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

// Load reads prizes.csv; a missing file loads as an empty catalog.
func (r *CatalogRepository) Load(ctx context.Context) ([]models.Prize, error) {
	f, err := os.Open(r.store.path(catalogFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", catalogFile, err)
	}
	defer f.Close()

	catalog, err := csvparse.ParsePrizes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", catalogFile, repositories.ErrCorruptState, err)
	}
	return catalog, nil
}

// Save rewrites prizes.csv with the given catalog.
func (r *CatalogRepository) Save(ctx context.Context, catalog []models.Prize) error {
	rows := make([][]string, 0, len(catalog))
	for _, prize := range catalog {
		rows = append(rows, []string{prize.ID, prize.Provider, prize.DisplayName})
	}
	header := []string{
		csvparse.ColPrizeID,
		csvparse.ColPrizeProvider,
		csvparse.ColPrizeDisplayName,
	}
	return writeCSV(r.store.path(catalogFile), header, rows)
}
