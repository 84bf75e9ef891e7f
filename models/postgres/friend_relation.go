package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Relationship status of a friend relation, seen from the owner's side.
// A pair of users is stored as two mirror rows, one owned by each side:
// while a request is open the sender's row says "sent" and the
// recipient's row says "pending"; once accepted both rows say "accepted".
const (
	RelationAccepted = "accepted"
	RelationPending  = "pending"
	RelationSent     = "sent"
)

/*
 * 'FriendRelation' is one mirror row of the friend graph: the
 * relationship between OwnerUsername and FriendUsername from the owner's
 * point of view. FriendPfp and FriendEmail are a denormalized snapshot
 * of the other side's profile taken when the request was created; they
 * can go stale and that is accepted.
 */
type FriendRelation struct {
	OwnerUsername  string `gorm:"primaryKey;size:50;index:idx_friend_relations_friend"`
	FriendUsername string `gorm:"primaryKey;size:50"`
	FriendPfp      string `gorm:"size:50"`
	FriendEmail    string `gorm:"size:100"`
	Status         string `gorm:"size:10;not null"`
	IsFavorite     bool   `gorm:"default:false"`
	// Populated when the request is accepted, NULL before that
	DateAdded *time.Time
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// GORM hook to ensure a relation never points back at its owner
func (r *FriendRelation) BeforeSave(tx *gorm.DB) error {
	if r.OwnerUsername == r.FriendUsername {
		return errors.New("cannot create a friend relation with yourself")
	}
	return nil
}
