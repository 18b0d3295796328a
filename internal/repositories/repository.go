// Package repositories defines the persistence collaborators the raffle
// services write through. Implementations live in csvstore (flat files, the
// default) and mongodb.
package repositories

import (
	"context"
	"errors"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

// ErrCorruptState is wrapped by Load implementations when persisted data
// exists but cannot be parsed or fails referential checks. The process entry
// point treats it as fatal rather than serving a half-loaded dataset.
var ErrCorruptState = errors.New("persisted raffle state is corrupt")

// RosterRepository persists the full participant roster.
type RosterRepository interface {
	// Load returns the persisted roster, or an empty list when nothing has
	// been persisted yet.
	Load(ctx context.Context) ([]models.Participant, error)
	// Save replaces the persisted roster with the given list.
	Save(ctx context.Context, roster []models.Participant) error
}

// CancellationRepository persists the day-of cancellation ID list.
type CancellationRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// CatalogRepository persists the prize catalog.
type CatalogRepository interface {
	Load(ctx context.Context) ([]models.Prize, error)
	Save(ctx context.Context, catalog []models.Prize) error
}

// MappingRepository persists the winner mapping table. Load validates the
// persisted mappings against the roster and catalog they were drawn from;
// a mapping referencing an unknown ID is corrupt state.
type MappingRepository interface {
	Load(ctx context.Context, roster []models.Participant, catalog []models.Prize) ([]models.WinnerMapping, error)
	Save(ctx context.Context, mappings []models.WinnerMapping) error
}
