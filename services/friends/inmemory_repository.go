package friends

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"
	"sync"
)

// InMemoryRepository keeps the friend graph in maps. It backs the unit
// tests so the directory logic can run without PostgreSQL, and the fault
// hooks let tests simulate a store that fails one side of a mirrored
// write.
type InMemoryRepository struct {
	mu        sync.RWMutex
	users     map[string]*models.User // keyed by username
	relations map[string]map[string]*models.FriendRelation

	// Fault injection: writes touching rows owned by these usernames fail.
	FailWritesFor map[string]bool
	// Fault injection: listing these usernames' relations fails.
	FailListsFor map[string]bool
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:         make(map[string]*models.User),
		relations:     make(map[string]map[string]*models.FriendRelation),
		FailWritesFor: make(map[string]bool),
		FailListsFor:  make(map[string]bool),
	}
}

func (m *InMemoryRepository) AddUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Username] = user
}

func (m *InMemoryRepository) DeleteUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	delete(m.relations, username)
}

func (m *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *InMemoryRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (m *InMemoryRepository) GetRelation(ctx context.Context, owner, friend string) (*models.FriendRelation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rel, ok := m.relations[owner][friend]
	if !ok {
		return nil, apperrors.NotFound("friend relation")
	}
	copied := *rel
	return &copied, nil
}

func (m *InMemoryRepository) ListRelations(ctx context.Context, owner string) ([]models.FriendRelation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailListsFor[owner] {
		return nil, apperrors.Store(errors.New("injected list failure"))
	}
	rels := make([]models.FriendRelation, 0, len(m.relations[owner]))
	for _, rel := range m.relations[owner] {
		rels = append(rels, *rel)
	}
	return rels, nil
}

func (m *InMemoryRepository) CreateRelation(ctx context.Context, rel *models.FriendRelation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(rel.OwnerUsername); err != nil {
		return err
	}
	if _, ok := m.relations[rel.OwnerUsername][rel.FriendUsername]; ok {
		return apperrors.AlreadyExists("friend relation")
	}
	if m.relations[rel.OwnerUsername] == nil {
		m.relations[rel.OwnerUsername] = make(map[string]*models.FriendRelation)
	}
	copied := *rel
	m.relations[rel.OwnerUsername][rel.FriendUsername] = &copied
	return nil
}

func (m *InMemoryRepository) UpdateRelation(ctx context.Context, rel *models.FriendRelation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(rel.OwnerUsername); err != nil {
		return err
	}
	if _, ok := m.relations[rel.OwnerUsername][rel.FriendUsername]; !ok {
		return apperrors.NotFound("friend relation")
	}
	copied := *rel
	m.relations[rel.OwnerUsername][rel.FriendUsername] = &copied
	return nil
}

func (m *InMemoryRepository) UpdateFriendUsername(ctx context.Context, oldUsername, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for owner, rels := range m.relations {
		rel, ok := rels[oldUsername]
		if !ok {
			continue
		}
		if err := m.failFor(owner); err != nil {
			return err
		}
		rel.FriendUsername = newUsername
		delete(rels, oldUsername)
		rels[newUsername] = rel
	}
	return nil
}

// RenameUser rekeys a user and the relation rows they own, mimicking
// what the owner_username foreign key cascade does in PostgreSQL.
// Mirror rows are NOT touched; callers migrate those through
// UpdateFriendUsername, exactly as production code must.
func (m *InMemoryRepository) RenameUser(oldUsername, newUsername string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[oldUsername]; ok {
		u.Username = newUsername
		delete(m.users, oldUsername)
		m.users[newUsername] = u
	}
	if rels, ok := m.relations[oldUsername]; ok {
		for _, rel := range rels {
			rel.OwnerUsername = newUsername
		}
		delete(m.relations, oldUsername)
		m.relations[newUsername] = rels
	}
}

func (m *InMemoryRepository) DeleteRelation(ctx context.Context, owner, friend string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor(owner); err != nil {
		return err
	}
	delete(m.relations[owner], friend)
	return nil
}

func (m *InMemoryRepository) failFor(owner string) error {
	if m.FailWritesFor[owner] {
		return apperrors.Store(errors.New("injected write failure"))
	}
	return nil
}
