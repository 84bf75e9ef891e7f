package cards

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"
	"sync"
)

// InMemoryRepository keeps the catalog and ledger in slices/maps so the
// draw engine can be exercised without PostgreSQL.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User // keyed by email
	cards []models.Card
	packs []models.Pack
	owned map[string][]models.OwnedCard // keyed by user id

	// Fault injection for the persistence-after-draw path.
	FailOwnedWrites bool
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]*models.User),
		owned: make(map[string][]models.OwnedCard),
	}
}

func (m *InMemoryRepository) AddUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *InMemoryRepository) AddCard(card models.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = append(m.cards, card)
}

func (m *InMemoryRepository) AddPack(pack models.Pack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packs = append(m.packs, pack)
}

func (m *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (m *InMemoryRepository) ListCards(ctx context.Context) ([]models.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Card(nil), m.cards...), nil
}

func (m *InMemoryRepository) GetCardsByIDs(ctx context.Context, ids []string) ([]models.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var result []models.Card
	for _, c := range m.cards {
		if wanted[c.ID] {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *InMemoryRepository) ListPacks(ctx context.Context) ([]models.Pack, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Pack(nil), m.packs...), nil
}

func (m *InMemoryRepository) AddOwnedCard(ctx context.Context, owned *models.OwnedCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOwnedWrites {
		return apperrors.Store(errors.New("injected write failure"))
	}
	m.owned[owned.UserID] = append(m.owned[owned.UserID], *owned)
	return nil
}

func (m *InMemoryRepository) ListOwnedCards(ctx context.Context, userID string) ([]models.OwnedCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.OwnedCard(nil), m.owned[userID]...), nil
}
