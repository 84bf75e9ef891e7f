package postgres

import (
	"time"
)

/*
 * 'OwnedCard' records that a user owns one instance of a catalog card.
 * Every pack opening appends a new row, duplicates included; per-card
 * counts are derived at read time by grouping. Rows are never mutated
 * and never deleted, not even when the owning account is removed.
 */
type OwnedCard struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"size:36;not null;index"`
	CardID     string    `gorm:"size:36;not null;index"`
	ObtainedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
