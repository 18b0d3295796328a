package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

func TestPrizeGroups(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	require.NoError(t, tr.prizes.ImportCatalog(ctx, []models.Prize{
		{ID: "1", Provider: "X", DisplayName: "TV"},
		{ID: "2", Provider: "X", DisplayName: "TV"},
		{ID: "3", Provider: "X", DisplayName: "Radio"},
		{ID: "4", Provider: "Y", DisplayName: "TV"},
	}))

	// Same display name and provider group together, the prize itself
	// included.
	assert.Equal(t, []string{"1", "2"}, tr.prizes.GetGroup("1"))
	assert.Equal(t, []string{"1", "2"}, tr.prizes.GetGroup("2"))

	// A prize with no duplicates is its own singleton group.
	assert.Equal(t, []string{"3"}, tr.prizes.GetGroup("3"))

	// Display name alone is not enough, the provider must match too.
	assert.Equal(t, []string{"4"}, tr.prizes.GetGroup("4"))

	// Only a missing prize yields nil.
	assert.Nil(t, tr.prizes.GetGroup("99"))
}

func TestCatalogAccessors(t *testing.T) {
	tr := newTestRaffle(t)
	ctx := context.Background()

	catalog := []models.Prize{
		{ID: "P1", Provider: "X", DisplayName: "TV"},
		{ID: "P2", Provider: "Y", DisplayName: "Radio"},
	}
	require.NoError(t, tr.prizes.ImportCatalog(ctx, catalog))

	assert.Equal(t, catalog, tr.prizes.GetAll())
	assert.Equal(t, []string{"P1", "P2"}, tr.prizes.GetAllIDs())

	prize := tr.prizes.GetByID("P2")
	require.NotNil(t, prize)
	assert.Equal(t, "Radio", prize.DisplayName)
	assert.Nil(t, tr.prizes.GetByID("P3"))

	// Imports persist through the repository.
	assert.Equal(t, catalog, tr.catalogRepo.data)

	require.NoError(t, tr.prizes.WipeCatalog(ctx))
	assert.Empty(t, tr.prizes.GetAll())
	assert.Empty(t, tr.catalogRepo.data)
}
