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

// RosterRepository persists the participant roster as parts.csv in the same
// column layout connpass exports.
type RosterRepository struct {
	store *Store
}

// NewRosterRepository creates a RosterRepository backed by the given store.
func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

// Load reads parts.csv. A missing file is a first run and loads as an empty
// roster; an unparsable file is corrupt state.
func (r *RosterRepository) Load(ctx context.Context) ([]models.Participant, error) {
	f, err := os.Open(r.store.path(rosterFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", rosterFile, err)
	}
	defer f.Close()

	roster, err := csvparse.ParseParticipants(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rosterFile, repositories.ErrCorruptState, err)
	}
	return roster, nil
}

// Save rewrites parts.csv with the given roster.
func (r *RosterRepository) Save(ctx context.Context, roster []models.Participant) error {
	rows := make([][]string, 0, len(roster))
	for _, participant := range roster {
		status := csvparse.StatusCancelled
		if participant.ConnpassAttending {
			status = csvparse.StatusAttending
		}
		rows = append(rows, []string{
			participant.Username,
			participant.DisplayName,
			status,
			participant.RegistrationID,
		})
	}
	header := []string{
		csvparse.ColUsername,
		csvparse.ColDisplayName,
		csvparse.ColAttendanceStatus,
		csvparse.ColRegistrationID,
	}
	return writeCSV(r.store.path(rosterFile), header, rows)
}
