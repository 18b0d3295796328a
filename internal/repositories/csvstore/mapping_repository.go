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

// MappingRepository persists the winner mapping table as winners.csv.
type MappingRepository struct {
	store *Store
}

// NewMappingRepository creates a MappingRepository backed by the given store.
func NewMappingRepository(store *Store) *MappingRepository {
	return &MappingRepository{store: store}
}

// Load reads winners.csv and validates every mapping against the roster and
// catalog; a mapping referencing an unknown ID is corrupt state.
func (r *MappingRepository) Load(ctx context.Context, roster []models.Participant, catalog []models.Prize) ([]models.WinnerMapping, error) {
	f, err := os.Open(r.store.path(mappingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", mappingsFile, err)
	}
	defer f.Close()

	mappings, err := csvparse.ParseWinnerMappings(f, roster, catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", mappingsFile, repositories.ErrCorruptState, err)
	}
	return mappings, nil
}

// Save rewrites winners.csv with the given mapping table.
func (r *MappingRepository) Save(ctx context.Context, mappings []models.WinnerMapping) error {
	rows := make([][]string, 0, len(mappings))
	for _, mapping := range mappings {
		rows = append(rows, []string{mapping.PrizeID, mapping.ParticipantID})
	}
	header := []string{csvparse.ColWinnerPrizeID, csvparse.ColWinnerParticipantID}
	return writeCSV(r.store.path(mappingsFile), header, rows)
}
