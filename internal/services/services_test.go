package services

import (
	"context"
	"sync"
	"testing"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

// In-memory repositories for testing the services without touching disk.

type memRosterRepo struct {
	data    []models.Participant
	saves   int
	saveErr error
}

func (m *memRosterRepo) Load(ctx context.Context) ([]models.Participant, error) {
	return m.data, nil
}

func (m *memRosterRepo) Save(ctx context.Context, roster []models.Participant) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = roster
	m.saves++
	return nil
}

type memCancellationRepo struct {
	data    []string
	saves   int
	saveErr error
}

func (m *memCancellationRepo) Load(ctx context.Context) ([]string, error) {
	return m.data, nil
}

func (m *memCancellationRepo) Save(ctx context.Context, ids []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = ids
	m.saves++
	return nil
}

type memCatalogRepo struct {
	data    []models.Prize
	saves   int
	saveErr error
}

func (m *memCatalogRepo) Load(ctx context.Context) ([]models.Prize, error) {
	return m.data, nil
}

func (m *memCatalogRepo) Save(ctx context.Context, catalog []models.Prize) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = catalog
	m.saves++
	return nil
}

type memMappingRepo struct {
	data    []models.WinnerMapping
	saves   int
	saveErr error
}

func (m *memMappingRepo) Load(ctx context.Context, roster []models.Participant, catalog []models.Prize) ([]models.WinnerMapping, error) {
	return m.data, nil
}

func (m *memMappingRepo) Save(ctx context.Context, mappings []models.WinnerMapping) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = mappings
	m.saves++
	return nil
}

type testRaffle struct {
	participants *ParticipantService
	prizes       *PrizeService
	ledger       *RaffleService
	coordinator  *RaffleCoordinator

	rosterRepo  *memRosterRepo
	cancelRepo  *memCancellationRepo
	catalogRepo *memCatalogRepo
	mappingRepo *memMappingRepo
}

func newTestRaffle(t *testing.T) *testRaffle {
	t.Helper()

	var mu sync.RWMutex
	rosterRepo := &memRosterRepo{}
	cancelRepo := &memCancellationRepo{}
	catalogRepo := &memCatalogRepo{}
	mappingRepo := &memMappingRepo{}

	participants := NewParticipantService(&mu, rosterRepo, cancelRepo)
	prizes := NewPrizeService(&mu, catalogRepo)
	ledger := NewRaffleService(&mu, mappingRepo, participants, prizes)
	participants.BindLedger(ledger)
	prizes.BindLedger(ledger)
	coordinator := NewRaffleCoordinator(&mu, participants, prizes, ledger)

	return &testRaffle{
		participants: participants,
		prizes:       prizes,
		ledger:       ledger,
		coordinator:  coordinator,
		rosterRepo:   rosterRepo,
		cancelRepo:   cancelRepo,
		catalogRepo:  catalogRepo,
		mappingRepo:  mappingRepo,
	}
}

func testParticipant(id string, attending bool) models.Participant {
	return models.Participant{
		RegistrationID:    id,
		Username:          "user-" + id,
		DisplayName:       "User " + id,
		ConnpassAttending: attending,
	}
}
