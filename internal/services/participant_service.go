package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

// ledgerGuard is how the roster and catalog learn whether any winner has been
// recorded. While mappings exist both lists are locked against replacement,
// so a draw can never be re-run against different data than it was drawn
// from. Implemented by RaffleService; callers hold the shared lock.
type ledgerGuard interface {
	hasMappings() bool
}

// ParticipantService owns the attendee roster and the day-of cancellation
// list, and derives the set of participants actually present at the venue.
//
// All three services share one RWMutex because every ledger write reads the
// other two stores and every roster or catalog write consults the ledger.
// Exported methods take the lock; unexported helpers assume it is held.
type ParticipantService struct {
	mu         *sync.RWMutex
	rosterRepo repositories.RosterRepository
	cancelRepo repositories.CancellationRepository
	ledger     ledgerGuard

	roster  []models.Participant
	cancels []string
	// present is roster filtered to ConnpassAttending and not cancelled,
	// in import order. Refreshed after every roster or cancellation change.
	present []models.Participant
}

// NewParticipantService creates a ParticipantService. BindLedger must be
// called before any import or wipe operation.
func NewParticipantService(mu *sync.RWMutex, rosterRepo repositories.RosterRepository, cancelRepo repositories.CancellationRepository) *ParticipantService {
	return &ParticipantService{
		mu:         mu,
		rosterRepo: rosterRepo,
		cancelRepo: cancelRepo,
	}
}

// BindLedger wires in the ledger guard. Separate from the constructor because
// the ledger itself needs this service to exist first.
func (s *ParticipantService) BindLedger(ledger ledgerGuard) {
	s.ledger = ledger
}

// Load reads the persisted roster and cancellation list, typically once at
// startup.
func (s *ParticipantService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	cancels, err := s.cancelRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cancellations: %w", err)
	}
	s.roster = roster
	s.cancels = cancels
	s.refreshPresent()
	slog.Info("Loaded participant state", "participants", len(s.roster), "cancellations", len(s.cancels))
	return nil
}

// refreshPresent recomputes the derived present set. Must run after every
// change to the roster or the cancellation list.
func (s *ParticipantService) refreshPresent() {
	cancelled := make(map[string]bool, len(s.cancels))
	for _, id := range s.cancels {
		cancelled[id] = true
	}
	present := make([]models.Participant, 0, len(s.roster))
	for _, participant := range s.roster {
		if participant.ConnpassAttending && !cancelled[participant.RegistrationID] {
			present = append(present, participant)
		}
	}
	s.present = present
}

func (s *ParticipantService) locked() bool {
	return s.ledger != nil && s.ledger.hasMappings()
}

// ImportRoster replaces the entire roster atomically. It fails with ErrLocked
// while any winner mapping exists.
func (s *ParticipantService) ImportRoster(ctx context.Context, roster []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrLocked
	}
	next := append([]models.Participant(nil), roster...)
	if err := s.rosterRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}
	s.roster = next
	s.refreshPresent()
	slog.Info("Imported new roster", "participants", len(s.roster))
	return nil
}

// WipeRoster replaces the roster with an empty list, under the same lock
// check as ImportRoster.
func (s *ParticipantService) WipeRoster(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked() {
		return ErrLocked
	}
	if err := s.rosterRepo.Save(ctx, nil); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}
	s.roster = nil
	s.refreshPresent()
	slog.Info("Wiped roster")
	return nil
}

// GetAll returns the full roster including absent participants.
func (s *ParticipantService) GetAll() []models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Participant(nil), s.roster...)
}

// GetAllIDs returns every registration ID in the roster.
func (s *ParticipantService) GetAllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.roster))
	for _, participant := range s.roster {
		ids = append(ids, participant.RegistrationID)
	}
	return ids
}

// GetByID returns the participant with the given registration ID, or nil.
// Exact string match only.
func (s *ParticipantService) GetByID(id string) *models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byIDLocked(id)
}

func (s *ParticipantService) byIDLocked(id string) *models.Participant {
	for i := range s.roster {
		if s.roster[i].RegistrationID == id {
			participant := s.roster[i]
			return &participant
		}
	}
	return nil
}

// GetPresent returns the participants currently at the venue, in import
// order.
func (s *ParticipantService) GetPresent() []models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Participant(nil), s.present...)
}

// GetPresentIDs returns the registration IDs of the present participants.
func (s *ParticipantService) GetPresentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presentIDsLocked()
}

func (s *ParticipantService) presentIDsLocked() []string {
	ids := make([]string, 0, len(s.present))
	for _, participant := range s.present {
		ids = append(ids, participant.RegistrationID)
	}
	return ids
}

// IsPresent reports whether the participant is attending on connpass and not
// on the day-of cancellation list.
func (s *ParticipantService) IsPresent(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, participant := range s.present {
		if participant.RegistrationID == id {
			return true
		}
	}
	return false
}

// GetCancellationIDs returns the day-of cancellation list.
func (s *ParticipantService) GetCancellationIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cancels...)
}

// AddCancellation marks a participant as not present today. Idempotent: a
// second add reports CancellationAlreadyCancelled and changes nothing. The
// error is non-nil only when persisting the changed list fails; in that case
// the in-memory list is left untouched and the outcome must be ignored.
func (s *ParticipantService) AddCancellation(ctx context.Context, id string) (CancellationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byIDLocked(id) == nil {
		return CancellationUnknownID, nil
	}
	for _, existing := range s.cancels {
		if existing == id {
			return CancellationAlreadyCancelled, nil
		}
	}
	next := append(append([]string(nil), s.cancels...), id)
	if err := s.cancelRepo.Save(ctx, next); err != nil {
		return CancellationApplied, fmt.Errorf("persist cancellations: %w", err)
	}
	s.cancels = next
	s.refreshPresent()
	return CancellationApplied, nil
}

// RemoveCancellation undoes AddCancellation, with symmetric outcomes.
func (s *ParticipantService) RemoveCancellation(ctx context.Context, id string) (CancellationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byIDLocked(id) == nil {
		return CancellationUnknownID, nil
	}
	index := -1
	for i, existing := range s.cancels {
		if existing == id {
			index = i
			break
		}
	}
	if index == -1 {
		return CancellationNotCancelled, nil
	}
	next := append(append([]string(nil), s.cancels[:index]...), s.cancels[index+1:]...)
	if err := s.cancelRepo.Save(ctx, next); err != nil {
		return CancellationApplied, fmt.Errorf("persist cancellations: %w", err)
	}
	s.cancels = next
	s.refreshPresent()
	return CancellationApplied, nil
}

// WipeCancellations clears the day-of cancellation list.
func (s *ParticipantService) WipeCancellations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cancelRepo.Save(ctx, nil); err != nil {
		return fmt.Errorf("persist cancellations: %w", err)
	}
	s.cancels = nil
	s.refreshPresent()
	slog.Info("Wiped cancellation list")
	return nil
}

// hasParticipant reports roster membership with the shared lock held. Used by
// the ledger during winner writes.
func (s *ParticipantService) hasParticipant(id string) bool {
	return s.byIDLocked(id) != nil
}
