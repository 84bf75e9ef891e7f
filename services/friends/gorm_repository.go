package friends

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormRepository stores the friend graph in PostgreSQL through GORM.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Store(err)
	}
	return &user, nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Store(err)
	}
	return &user, nil
}

func (r *GormRepository) GetRelation(ctx context.Context, owner, friend string) (*models.FriendRelation, error) {
	var rel models.FriendRelation
	err := r.db.WithContext(ctx).
		Where("owner_username = ? AND friend_username = ?", owner, friend).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("friend relation")
		}
		return nil, apperrors.Store(err)
	}
	return &rel, nil
}

func (r *GormRepository) ListRelations(ctx context.Context, owner string) ([]models.FriendRelation, error) {
	var rels []models.FriendRelation
	err := r.db.WithContext(ctx).
		Where("owner_username = ?", owner).
		Order("friend_username ASC").
		Find(&rels).Error
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return rels, nil
}

func (r *GormRepository) CreateRelation(ctx context.Context, rel *models.FriendRelation) error {
	if err := r.db.WithContext(ctx).Create(rel).Error; err != nil {
		return apperrors.Store(err)
	}
	return nil
}

func (r *GormRepository) UpdateRelation(ctx context.Context, rel *models.FriendRelation) error {
	err := r.db.WithContext(ctx).
		Model(&models.FriendRelation{}).
		Where("owner_username = ? AND friend_username = ?", rel.OwnerUsername, rel.FriendUsername).
		Updates(map[string]interface{}{
			"status":      rel.Status,
			"is_favorite": rel.IsFavorite,
			"date_added":  rel.DateAdded,
		}).Error
	if err != nil {
		return apperrors.Store(err)
	}
	return nil
}

func (r *GormRepository) UpdateFriendUsername(ctx context.Context, oldUsername, newUsername string) error {
	err := r.db.WithContext(ctx).
		Model(&models.FriendRelation{}).
		Where("friend_username = ?", oldUsername).
		Update("friend_username", newUsername).Error
	if err != nil {
		return apperrors.Store(err)
	}
	return nil
}

func (r *GormRepository) DeleteRelation(ctx context.Context, owner, friend string) error {
	err := r.db.WithContext(ctx).
		Where("owner_username = ? AND friend_username = ?", owner, friend).
		Delete(&models.FriendRelation{}).Error
	if err != nil {
		return apperrors.Store(err)
	}
	return nil
}
