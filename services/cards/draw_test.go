package cards

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededService(repo Repository, seed int64) *Service {
	s := NewService(repo)
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

func fullCatalog() []models.Card {
	return []models.Card{
		{ID: "c1", Name: "Emberling", Rarity: models.RarityCommon, Type: "fire"},
		{ID: "c2", Name: "Puddlefish", Rarity: models.RarityCommon, Type: "water"},
		{ID: "c3", Name: "Thornback", Rarity: models.RarityCommon, Type: "grass"},
		{ID: "r1", Name: "Voltcrane", Rarity: models.RarityRare, Type: "electric"},
		{ID: "r2", Name: "Mindmoth", Rarity: models.RarityRare, Type: "psychic"},
		{ID: "l1", Name: "Stonewyrm", Rarity: models.RarityLegendary, Type: "dragon"},
	}
}

func TestPullRandomCardEmptyCatalog(t *testing.T) {
	s := newSeededService(NewInMemoryRepository(), 1)

	card, err := s.PullRandomCard(nil)
	assert.Nil(t, card)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCatalog)
	assert.EqualError(t, err, "no cards available")
}

func TestPullRandomCardNeverNilOnNonEmptyCatalog(t *testing.T) {
	s := newSeededService(NewInMemoryRepository(), 2)
	catalog := fullCatalog()

	for i := 0; i < 1000; i++ {
		card, err := s.PullRandomCard(catalog)
		require.NoError(t, err)
		require.NotNil(t, card)
	}
}

func TestPullRandomCardDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("distribution test draws 100k cards")
	}

	s := newSeededService(NewInMemoryRepository(), 42)
	catalog := fullCatalog()

	const n = 100000
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		card, err := s.PullRandomCard(catalog)
		require.NoError(t, err)
		counts[card.Rarity]++
	}

	common := float64(counts[models.RarityCommon]) / n
	rare := float64(counts[models.RarityRare]) / n
	legendary := float64(counts[models.RarityLegendary]) / n

	assert.InDelta(t, 0.70, common, 0.02, "common share")
	assert.InDelta(t, 0.25, rare, 0.02, "rare share")
	assert.InDelta(t, 0.05, legendary, 0.01, "legendary share")
}

func TestPullRandomCardFallsBackToAnyCard(t *testing.T) {
	s := newSeededService(NewInMemoryRepository(), 7)

	// A catalog with commons only: rolls for rare or legendary must
	// still produce a card
	catalog := []models.Card{
		{ID: "c1", Name: "Emberling", Rarity: models.RarityCommon},
		{ID: "c2", Name: "Puddlefish", Rarity: models.RarityCommon},
	}

	for i := 0; i < 1000; i++ {
		card, err := s.PullRandomCard(catalog)
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Equal(t, models.RarityCommon, card.Rarity)
	}
}

func TestOpenPackAppendsToLedger(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.AddUser(&models.User{ID: "u1", Email: "ana@test.com", Username: "ana"})
	for _, c := range fullCatalog() {
		repo.AddCard(c)
	}
	s := newSeededService(repo, 3)
	ctx := context.Background()

	first, err := s.OpenPack(ctx, "ana@test.com")
	require.NoError(t, err)
	assert.Nil(t, first.Warning)

	second, err := s.OpenPack(ctx, "ana@test.com")
	require.NoError(t, err)
	assert.Nil(t, second.Warning)

	owned, err := repo.ListOwnedCards(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, first.Card.ID, owned[0].CardID)
	assert.Equal(t, second.Card.ID, owned[1].CardID)
	assert.NotEqual(t, owned[0].ID, owned[1].ID)
	assert.False(t, owned[0].ObtainedAt.IsZero())
}

func TestOpenPackUnknownUser(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.AddCard(models.Card{ID: "c1", Rarity: models.RarityCommon})
	s := newSeededService(repo, 4)

	_, err := s.OpenPack(context.Background(), "ghost@test.com")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestOpenPackEmptyCatalog(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.AddUser(&models.User{ID: "u1", Email: "ana@test.com", Username: "ana"})
	s := newSeededService(repo, 5)

	_, err := s.OpenPack(context.Background(), "ana@test.com")
	assert.ErrorIs(t, err, apperrors.ErrEmptyCatalog)
}

func TestOpenPackPersistenceFailureKeepsTheReveal(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.AddUser(&models.User{ID: "u1", Email: "ana@test.com", Username: "ana"})
	for _, c := range fullCatalog() {
		repo.AddCard(c)
	}
	repo.FailOwnedWrites = true
	s := newSeededService(repo, 6)

	result, err := s.OpenPack(context.Background(), "ana@test.com")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Card.ID)
	assert.ErrorIs(t, result.Warning, apperrors.ErrStoreOperationFailed)

	owned, err := repo.ListOwnedCards(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, owned)
}
