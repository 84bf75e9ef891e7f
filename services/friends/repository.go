package friends

import (
	models "Cardex/models/postgres"
	"context"
)

// Repository is the persistence contract of the friendship directory.
// Implementations report missing rows with apperrors.ErrNotFound and
// wrap backend failures with apperrors.Store so callers can tell the
// two apart.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	GetRelation(ctx context.Context, owner, friend string) (*models.FriendRelation, error)
	ListRelations(ctx context.Context, owner string) ([]models.FriendRelation, error)
	CreateRelation(ctx context.Context, rel *models.FriendRelation) error
	UpdateRelation(ctx context.Context, rel *models.FriendRelation) error
	DeleteRelation(ctx context.Context, owner, friend string) error

	// UpdateFriendUsername rewrites friend_username on every mirror row
	// pointing at oldUsername. It must run together with a username
	// rename: the renamed user's own rows follow the account row, the
	// rows their friends own do not.
	UpdateFriendUsername(ctx context.Context, oldUsername, newUsername string) error
}
