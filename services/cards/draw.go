package cards

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PullResult is what a pack opening yields. Warning is set when the
// drawn card could not be persisted to the owned-card ledger; the
// reveal already happened, so that failure is surfaced instead of
// invalidating the draw.
type PullResult struct {
	Card    models.Card
	Warning error
}

// Service performs weighted-random card draws against the shared
// catalog and maintains the per-user owned-card ledger.
type Service struct {
	repo  Repository
	mu    sync.Mutex // guards rng, *rand.Rand is not goroutine safe
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// PullRandomCard draws one card from the given catalog snapshot.
// The rarity is decided first with a 70/25/5 split (common/rare/
// legendary), then a card is chosen uniformly among that rarity. When
// the catalog holds no card of the rolled rarity the draw degrades to a
// uniform pick over the whole catalog rather than failing. An empty
// catalog is the only error case.
func (s *Service) PullRandomCard(catalog []models.Card) (*models.Card, error) {
	if len(catalog) == 0 {
		return nil, apperrors.ErrEmptyCatalog
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roll := s.rng.Intn(100) + 1
	var rarity int
	switch {
	case roll <= 70:
		rarity = models.RarityCommon
	case roll <= 95:
		rarity = models.RarityRare
	default:
		rarity = models.RarityLegendary
	}

	var filtered []models.Card
	for _, c := range catalog {
		if c.Rarity == rarity {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) > 0 {
		card := filtered[s.rng.Intn(len(filtered))]
		return &card, nil
	}

	log.Printf("Warning: no cards with rarity %s, returning any card", models.RarityName(rarity))
	card := catalog[s.rng.Intn(len(catalog))]
	return &card, nil
}

// OpenPack draws a card for the authenticated user and appends one row
// to their owned-card ledger. Persistence failure does not take the
// revealed card away, it comes back as PullResult.Warning.
func (s *Service) OpenPack(ctx context.Context, actorEmail string) (*PullResult, error) {
	actor, err := s.repo.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, err
	}

	catalog, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	card, err := s.PullRandomCard(catalog)
	if err != nil {
		return nil, err
	}

	result := &PullResult{Card: *card}

	owned := &models.OwnedCard{
		ID:         s.newID(),
		UserID:     actor.ID,
		CardID:     card.ID,
		ObtainedAt: s.now(),
	}
	if err := s.repo.AddOwnedCard(ctx, owned); err != nil {
		result.Warning = err
		log.Printf("Pack opening for %s: card %s drawn but not persisted: %v", actor.Username, card.ID, err)
	}

	return result, nil
}

// ListPacks returns the pack skins shown on the home screen.
func (s *Service) ListPacks(ctx context.Context) ([]models.Pack, error) {
	return s.repo.ListPacks(ctx)
}

// ListCatalog returns the full shared card catalog.
func (s *Service) ListCatalog(ctx context.Context) ([]models.Card, error) {
	return s.repo.ListCards(ctx)
}
