package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

// RaffleService owns the winner mapping table: which participant won which
// prize. Every write is validated against the roster and catalog, and while
// the table is non-empty both of those lists are locked against replacement.
type RaffleService struct {
	mu           *sync.RWMutex
	mappingRepo  repositories.MappingRepository
	participants *ParticipantService
	prizes       *PrizeService

	mappings []models.WinnerMapping
}

// NewRaffleService creates a RaffleService validating against the given
// roster and catalog services.
func NewRaffleService(mu *sync.RWMutex, mappingRepo repositories.MappingRepository, participants *ParticipantService, prizes *PrizeService) *RaffleService {
	return &RaffleService{
		mu:           mu,
		mappingRepo:  mappingRepo,
		participants: participants,
		prizes:       prizes,
	}
}

// Load reads the persisted mapping table. The roster and catalog services
// must be loaded first; persisted mappings referencing IDs they don't know
// are corrupt state.
func (s *RaffleService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.mappingRepo.Load(ctx, s.participants.roster, s.prizes.catalog)
	if err != nil {
		return fmt.Errorf("load winner mappings: %w", err)
	}
	s.mappings = mappings
	slog.Info("Loaded winner mappings", "mappings", len(s.mappings))
	return nil
}

// hasMappings implements ledgerGuard for the roster and catalog lock checks.
// Shared lock held by the caller.
func (s *RaffleService) hasMappings() bool {
	return len(s.mappings) > 0
}

// GetMappings returns every recorded winner in draw order.
func (s *RaffleService) GetMappings() []models.WinnerMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappingsLocked()
}

// mappingsLocked copies the table; never nil so the JSON form is always an
// array.
func (s *RaffleService) mappingsLocked() []models.WinnerMapping {
	mappings := make([]models.WinnerMapping, len(s.mappings))
	copy(mappings, s.mappings)
	return mappings
}

// GetWinnerFor returns the registration ID of the participant who won the
// given prize. The second return is false when the prize has no winner.
func (s *RaffleService) GetWinnerFor(prizeID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mapping := range s.mappings {
		if mapping.PrizeID == prizeID {
			return mapping.ParticipantID, true
		}
	}
	return "", false
}

func (s *RaffleService) indexOfLocked(prizeID string) int {
	for i, mapping := range s.mappings {
		if mapping.PrizeID == prizeID {
			return i
		}
	}
	return -1
}

// SetWinner records participantID as the winner of prizeID. Both IDs must
// exist, but the participant does not have to be present: a cancelled
// attendee stays a valid winner on purpose, so a day-of cancellation never
// silently voids an earlier draw. Without overwrite a second winner for the
// same prize fails with ErrAlreadyAssigned and the table is untouched; with
// overwrite the existing mapping is replaced in place, keeping its position.
func (s *RaffleService) SetWinner(ctx context.Context, prizeID, participantID string, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prizes.hasPrize(prizeID) {
		return ErrUnknownPrize
	}
	if !s.participants.hasParticipant(participantID) {
		return ErrUnknownParticipant
	}

	index := s.indexOfLocked(prizeID)
	if index != -1 && !overwrite {
		return ErrAlreadyAssigned
	}
	next := s.mappingsLocked()
	if index != -1 {
		next[index] = models.WinnerMapping{PrizeID: prizeID, ParticipantID: participantID}
	} else {
		next = append(next, models.WinnerMapping{PrizeID: prizeID, ParticipantID: participantID})
	}
	if err := s.mappingRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist winner mappings: %w", err)
	}
	s.mappings = next
	if index != -1 {
		slog.Info("Overwrote winner", "prizeId", prizeID, "participantId", participantID)
	} else {
		slog.Info("Recorded winner", "prizeId", prizeID, "participantId", participantID)
	}
	return nil
}

// DeleteWinner revokes the winner of the given prize. It fails with
// ErrUnknownPrize when the prize does not exist and with ErrNotAssigned when
// it exists but has not been drawn.
func (s *RaffleService) DeleteWinner(ctx context.Context, prizeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prizes.hasPrize(prizeID) {
		return ErrUnknownPrize
	}
	index := s.indexOfLocked(prizeID)
	if index == -1 {
		return ErrNotAssigned
	}
	next := s.mappingsLocked()
	next = append(next[:index], next[index+1:]...)
	if err := s.mappingRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist winner mappings: %w", err)
	}
	s.mappings = next
	slog.Info("Revoked winner", "prizeId", prizeID)
	return nil
}

// WipeAll clears the entire mapping table unconditionally, lifting the
// roster and catalog lock.
func (s *RaffleService) WipeAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mappingRepo.Save(ctx, nil); err != nil {
		return fmt.Errorf("persist winner mappings: %w", err)
	}
	s.mappings = nil
	slog.Info("Wiped winner mappings")
	return nil
}
