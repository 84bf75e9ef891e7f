package cards

import (
	models "Cardex/models/postgres"
	"context"
	"errors"
	"sort"

	"Cardex/apperrors"
)

// CardCount is one aggregated collection entry: a catalog card plus how
// many copies the owner holds.
type CardCount struct {
	Card  models.Card `json:"card"`
	Count int         `json:"count"`
}

// AggregateCollection builds a user's collection view: the owned-card
// rows are grouped by catalog card with occurrence counts, the catalog
// entries are fetched in one batch and zipped back onto the counts.
// Ledger rows whose catalog entry no longer loads are skipped rather
// than failing the whole aggregation. The result is sorted by rarity
// descending, then name ascending.
func (s *Service) AggregateCollection(ctx context.Context, ownerID string) ([]CardCount, error) {
	owned, err := s.repo.ListOwnedCards(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(owned))
	ids := make([]string, 0, len(owned))
	for _, row := range owned {
		if counts[row.CardID] == 0 {
			ids = append(ids, row.CardID)
		}
		counts[row.CardID]++
	}

	if len(ids) == 0 {
		return []CardCount{}, nil
	}

	catalog, err := s.repo.GetCardsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]CardCount, 0, len(catalog))
	for _, card := range catalog {
		count, ok := counts[card.ID]
		if !ok {
			continue
		}
		result = append(result, CardCount{Card: card, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Card.Rarity != result[j].Card.Rarity {
			return result[i].Card.Rarity > result[j].Card.Rarity
		}
		return result[i].Card.Name < result[j].Card.Name
	})
	return result, nil
}

// CollectionForEmail resolves the authenticated user and aggregates
// their own collection.
func (s *Service) CollectionForEmail(ctx context.Context, actorEmail string) ([]CardCount, error) {
	actor, err := s.repo.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, err
	}
	return s.AggregateCollection(ctx, actor.ID)
}

// Totals derives the two header numbers of the collection screen.
func Totals(collection []CardCount) (total, unique int) {
	for _, entry := range collection {
		total += entry.Count
	}
	return total, len(collection)
}
