package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/repositories"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestMissingFilesLoadAsEmptyState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	roster, err := NewRosterRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, roster)

	cancels, err := NewCancellationRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cancels)

	catalog, err := NewCatalogRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, catalog)

	mappings, err := NewMappingRepository(store).Load(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestRosterRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewRosterRepository(store)
	ctx := context.Background()

	roster := []models.Participant{
		{RegistrationID: "001", Username: "alice", DisplayName: "Alice", ConnpassAttending: true},
		{RegistrationID: "002", Username: "bob", DisplayName: "Bob", ConnpassAttending: false},
	}
	require.NoError(t, repo.Save(ctx, roster))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, roster, loaded)
}

func TestCancellationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewCancellationRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []string{"002", "005"}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"002", "005"}, loaded)
}

func TestCancellationLoadSkipsBlankLines(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.dataDir, cancellationsFile)
	require.NoError(t, os.WriteFile(path, []byte("001\n\n  \n002\n"), 0o644))

	loaded, err := NewCancellationRepository(store).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, loaded)
}

func TestCancellationLoadRejectsNonNumericLines(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.dataDir, cancellationsFile)
	require.NoError(t, os.WriteFile(path, []byte("001\nalice\n"), 0o644))

	_, err := NewCancellationRepository(store).Load(context.Background())
	require.ErrorIs(t, err, repositories.ErrCorruptState)
}

func TestCatalogRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewCatalogRepository(store)
	ctx := context.Background()

	catalog := []models.Prize{
		{ID: "P1", Provider: "Acme", DisplayName: "TV"},
		{ID: "P2", Provider: "Globex", DisplayName: "Radio"},
	}
	require.NoError(t, repo.Save(ctx, catalog))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, loaded)
}

func TestMappingRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewMappingRepository(store)
	ctx := context.Background()

	roster := []models.Participant{
		{RegistrationID: "001", ConnpassAttending: true},
		{RegistrationID: "002", ConnpassAttending: true},
	}
	catalog := []models.Prize{{ID: "P1"}, {ID: "P2"}}
	mappings := []models.WinnerMapping{
		{PrizeID: "P1", ParticipantID: "002"},
		{PrizeID: "P2", ParticipantID: "001"},
	}
	require.NoError(t, repo.Save(ctx, mappings))

	loaded, err := repo.Load(ctx, roster, catalog)
	require.NoError(t, err)
	assert.Equal(t, mappings, loaded)
}

func TestMappingLoadValidatesReferences(t *testing.T) {
	store := newTestStore(t)
	repo := NewMappingRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []models.WinnerMapping{{PrizeID: "P1", ParticipantID: "001"}}))

	_, err := repo.Load(ctx, nil, []models.Prize{{ID: "P1"}})
	require.ErrorIs(t, err, repositories.ErrCorruptState)

	_, err = repo.Load(ctx, []models.Participant{{RegistrationID: "001"}}, nil)
	require.ErrorIs(t, err, repositories.ErrCorruptState)
}

func TestRosterLoadRejectsBrokenCSV(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.dataDir, rosterFile)
	require.NoError(t, os.WriteFile(path, []byte("ユーザー名,表示名\nalice,Alice\n"), 0o644))

	_, err := NewRosterRepository(store).Load(context.Background())
	require.ErrorIs(t, err, repositories.ErrCorruptState)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	store := newTestStore(t)
	repo := NewCatalogRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []models.Prize{
		{ID: "P1", Provider: "Acme", DisplayName: "TV"},
		{ID: "P2", Provider: "Acme", DisplayName: "Radio"},
	}))
	require.NoError(t, repo.Save(ctx, []models.Prize{
		{ID: "P3", Provider: "Globex", DisplayName: "Mug"},
	}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Prize{{ID: "P3", Provider: "Globex", DisplayName: "Mug"}}, loaded)
}
