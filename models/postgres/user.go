package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'User' contains the blueprint definition of a registered account.
 * The ID is assigned at signup (UUID), the username is stored lowercased
 * and kept unique at the database level.
 */
type User struct {
	ID           string         `gorm:"primaryKey;size:36"`
	Email        string         `gorm:"size:100;not null;uniqueIndex"`
	Username     string         `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string         `gorm:"size:255;not null"`
	Pfp          string         `gorm:"size:50;not null;default:'tcgpfp'"`
	UserStats    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	MemberSince  time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relation rows owned by this user, removed together with the account
	Relations []FriendRelation `gorm:"foreignKey:OwnerUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
