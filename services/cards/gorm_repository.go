package cards

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormRepository stores the catalog and owned-card ledger in PostgreSQL.
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

func (r *GormRepository) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return cards, nil
}

func (r *GormRepository) GetCardsByIDs(ctx context.Context, ids []string) ([]models.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cards []models.Card
	if err := r.db.WithContext(ctx).Where("id IN (?)", ids).Find(&cards).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return cards, nil
}

func (r *GormRepository) ListPacks(ctx context.Context) ([]models.Pack, error) {
	var packs []models.Pack
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&packs).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return packs, nil
}

func (r *GormRepository) AddOwnedCard(ctx context.Context, owned *models.OwnedCard) error {
	if err := r.db.WithContext(ctx).Create(owned).Error; err != nil {
		return apperrors.Store(err)
	}
	return nil
}

func (r *GormRepository) ListOwnedCards(ctx context.Context, userID string) ([]models.OwnedCard, error) {
	var owned []models.OwnedCard
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("obtained_at ASC").
		Find(&owned).Error
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return owned, nil
}
