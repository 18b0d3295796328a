package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

func TestPresentSetDerivation(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	// A attends, B attends but cancels on the day, C never attended.
	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
		testParticipant("002", true),
		testParticipant("003", false),
	}))
	outcome, err := tr.participants.AddCancellation(ctx, "002")
	require.NoError(t, err)
	require.Equal(t, CancellationApplied, outcome)

	assert.Equal(t, []string{"001"}, tr.participants.GetPresentIDs())
	assert.True(t, tr.participants.IsPresent("001"))
	assert.False(t, tr.participants.IsPresent("002"))
	assert.False(t, tr.participants.IsPresent("003"))

	present := tr.participants.GetPresent()
	require.Len(t, present, 1)
	assert.Equal(t, "001", present[0].RegistrationID)
}

func TestPresentSetKeepsImportOrder(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("005", true),
		testParticipant("001", true),
		testParticipant("003", true),
	}))

	assert.Equal(t, []string{"005", "001", "003"}, tr.participants.GetPresentIDs())
}

func TestCancellationOutcomes(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
	}))

	outcome, err := tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationApplied, outcome)

	outcome, err = tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationAlreadyCancelled, outcome)

	outcome, err = tr.participants.AddCancellation(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, CancellationUnknownID, outcome)

	outcome, err = tr.participants.RemoveCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationApplied, outcome)

	outcome, err = tr.participants.RemoveCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationNotCancelled, outcome)

	outcome, err = tr.participants.RemoveCancellation(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, CancellationUnknownID, outcome)
}

func TestCancellationMutationsPersist(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
		testParticipant("002", true),
	}))

	_, err := tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, tr.cancelRepo.data)

	// Failed toggles must not write.
	savesBefore := tr.cancelRepo.saves
	_, err = tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	_, err = tr.participants.AddCancellation(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, savesBefore, tr.cancelRepo.saves)

	require.NoError(t, tr.participants.WipeCancellations(ctx))
	assert.Empty(t, tr.cancelRepo.data)
	assert.Equal(t, []string{"001", "002"}, tr.participants.GetPresentIDs())
}

func TestCancellationPersistFailureLeavesStateUntouched(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
		testParticipant("002", true),
	}))

	tr.cancelRepo.saveErr = errors.New("disk full")
	_, err := tr.participants.AddCancellation(ctx, "001")
	require.Error(t, err)

	// The failed write must not leave the list and the present set disagreeing.
	assert.Empty(t, tr.participants.GetCancellationIDs())
	assert.Equal(t, []string{"001", "002"}, tr.participants.GetPresentIDs())
	assert.True(t, tr.participants.IsPresent("001"))

	// Once the store recovers the same toggle goes through.
	tr.cancelRepo.saveErr = nil
	outcome, err := tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationApplied, outcome)
	assert.Equal(t, []string{"002"}, tr.participants.GetPresentIDs())

	tr.cancelRepo.saveErr = errors.New("disk full")
	_, err = tr.participants.RemoveCancellation(ctx, "001")
	require.Error(t, err)
	assert.Equal(t, []string{"001"}, tr.participants.GetCancellationIDs())
	assert.Equal(t, []string{"002"}, tr.participants.GetPresentIDs())

	err = tr.participants.WipeCancellations(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"001"}, tr.participants.GetCancellationIDs())
}

func TestRosterPersistFailureLeavesStateUntouched(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
	}))

	tr.rosterRepo.saveErr = errors.New("disk full")
	err := tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("002", true),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"001"}, tr.participants.GetAllIDs())
	assert.Equal(t, []string{"001"}, tr.participants.GetPresentIDs())

	err = tr.participants.WipeRoster(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"001"}, tr.participants.GetAllIDs())
}

func TestGetByIDExactMatch(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("100", true),
		testParticipant("1001", true),
	}))

	got := tr.participants.GetByID("100")
	require.NotNil(t, got)
	assert.Equal(t, "100", got.RegistrationID)

	assert.Nil(t, tr.participants.GetByID("10"))
	assert.Nil(t, tr.participants.GetByID(""))
}

func TestRosterLockWhileMappingsExist(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{
		testParticipant("001", true),
	}))
	require.NoError(t, tr.prizes.ImportCatalog(ctx, []models.Prize{
		{ID: "P1", Provider: "X", DisplayName: "TV"},
	}))
	require.NoError(t, tr.ledger.SetWinner(ctx, "P1", "001", false))

	assert.ErrorIs(t, tr.participants.ImportRoster(ctx, []models.Participant{testParticipant("002", true)}), ErrLocked)
	assert.ErrorIs(t, tr.participants.WipeRoster(ctx), ErrLocked)
	assert.ErrorIs(t, tr.prizes.ImportCatalog(ctx, []models.Prize{{ID: "P2"}}), ErrLocked)
	assert.ErrorIs(t, tr.prizes.WipeCatalog(ctx), ErrLocked)

	// The lock never blocks reads or cancellation edits.
	outcome, err := tr.participants.AddCancellation(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, CancellationApplied, outcome)

	// Wiping the mappings lifts the lock.
	require.NoError(t, tr.ledger.WipeAll(ctx))
	assert.NoError(t, tr.participants.ImportRoster(ctx, []models.Participant{testParticipant("002", true)}))
	assert.NoError(t, tr.prizes.ImportCatalog(ctx, []models.Prize{{ID: "P2", Provider: "X", DisplayName: "Radio"}}))
	assert.NoError(t, tr.participants.WipeRoster(ctx))
	assert.NoError(t, tr.prizes.WipeCatalog(ctx))
}
