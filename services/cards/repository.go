package cards

import (
	models "Cardex/models/postgres"
	"context"
)

// Repository is the persistence contract of the card engine: the shared
// catalog, the pack skins and the per-user owned-card ledger.
// Implementations report missing rows with apperrors.ErrNotFound and
// wrap backend failures with apperrors.Store.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	ListCards(ctx context.Context) ([]models.Card, error)
	GetCardsByIDs(ctx context.Context, ids []string) ([]models.Card, error)
	ListPacks(ctx context.Context) ([]models.Pack, error)

	AddOwnedCard(ctx context.Context, owned *models.OwnedCard) error
	ListOwnedCards(ctx context.Context, userID string) ([]models.OwnedCard, error)
}
