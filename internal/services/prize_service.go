package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

// PrizeService owns the prize catalog and computes prize groups: prizes with
// the same display name and provider, shown as one block on the draw screen.
type PrizeService struct {
	mu          *sync.RWMutex
	catalogRepo repositories.CatalogRepository
	ledger      ledgerGuard

	catalog []models.Prize
}

// NewPrizeService creates a PrizeService. BindLedger must be called before
// any import or wipe operation.
func NewPrizeService(mu *sync.RWMutex, catalogRepo repositories.CatalogRepository) *PrizeService {
	return &PrizeService{
		mu:          mu,
		catalogRepo: catalogRepo,
	}
}

// BindLedger wires in the ledger guard.
func (s *PrizeService) BindLedger(ledger ledgerGuard) {
	s.ledger = ledger
}

// Load reads the persisted catalog, typically once at startup.
func (s *PrizeService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.catalogRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.catalog = catalog
	slog.Info("Loaded prize catalog", "prizes", len(s.catalog))
	return nil
}

func (s *PrizeService) locked() bool {
	return s.ledger != nil && s.ledger.hasMappings()
}

// ImportCatalog replaces the entire catalog atomically. It fails with
// ErrLocked while any winner mapping exists.
func (s *PrizeService) ImportCatalog(ctx context.Context, catalog []models.Prize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrLocked
	}
	next := append([]models.Prize(nil), catalog...)
	if err := s.catalogRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	s.catalog = next
	slog.Info("Imported new prize catalog", "prizes", len(s.catalog))
	return nil
}

// WipeCatalog replaces the catalog with an empty list, under the same lock
// check as ImportCatalog.
func (s *PrizeService) WipeCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrLocked
	}
	if err := s.catalogRepo.Save(ctx, nil); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	s.catalog = nil
	slog.Info("Wiped prize catalog")
	return nil
}

// GetAll returns the full catalog in import order.
func (s *PrizeService) GetAll() []models.Prize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Prize(nil), s.catalog...)
}

// GetAllIDs returns every prize ID in the catalog.
func (s *PrizeService) GetAllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.catalog))
	for _, prize := range s.catalog {
		ids = append(ids, prize.ID)
	}
	return ids
}

// GetByID returns the prize with the given ID, or nil.
func (s *PrizeService) GetByID(id string) *models.Prize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byIDLocked(id)
}

func (s *PrizeService) byIDLocked(id string) *models.Prize {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			prize := s.catalog[i]
			return &prize
		}
	}
	return nil
}

// GetGroup returns the IDs of every prize sharing the given prize's display
// name and provider, the prize itself included, so the result always has at
// least one entry. It returns nil only when the prize does not exist.
// Whether a singleton group is worth showing is the caller's call.
func (s *PrizeService) GetGroup(prizeID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupLocked(prizeID)
}

func (s *PrizeService) groupLocked(prizeID string) []string {
	lookup := s.byIDLocked(prizeID)
	if lookup == nil {
		return nil
	}
	var group []string
	for _, prize := range s.catalog {
		if prize.DisplayName == lookup.DisplayName && prize.Provider == lookup.Provider {
			group = append(group, prize.ID)
		}
	}
	return group
}

// hasPrize reports catalog membership with the shared lock held. Used by the
// ledger during winner writes.
func (s *PrizeService) hasPrize(id string) bool {
	return s.byIDLocked(id) != nil
}
