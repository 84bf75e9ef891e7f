package friends

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"
	"log"
	"time"
)

// Reconciler repairs asymmetric mirror pairs. Mirrored writes are two
// separate store operations with no transaction, so a failed secondary
// write (or a deleted counterpart account) can leave the two rows of a
// pair disagreeing. Repair runs on every snapshot load and converges
// the pair toward a consistent state:
//
//   - my row says "sent" but the counterpart row is gone: the pending
//     mirror is recreated (the request is still outstanding)
//   - my row says "pending" or "accepted" but the counterpart row is
//     gone: my row is deleted (the other side revoked or removed)
//   - one side says "accepted" while the other still says "sent" or
//     "pending": the lagging side is promoted to "accepted"
//
// Running Repair twice in a row performs no writes the second time.
type Reconciler struct {
	repo Repository
}

func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Repair loads owner's relation set, fixes what it can and returns the
// repaired set. Individual repair failures are logged and skipped; a
// divergent pair left behind is picked up by the next read.
func (r *Reconciler) Repair(ctx context.Context, owner string) ([]models.FriendRelation, error) {
	rels, err := r.repo.ListRelations(ctx, owner)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range rels {
		if r.repairPair(ctx, owner, &rels[i]) {
			changed = true
		}
	}

	if !changed {
		return rels, nil
	}
	return r.repo.ListRelations(ctx, owner)
}

func (r *Reconciler) repairPair(ctx context.Context, owner string, rel *models.FriendRelation) bool {
	mirror, err := r.repo.GetRelation(ctx, rel.FriendUsername, owner)
	if errors.Is(err, apperrors.ErrNotFound) {
		return r.repairMissingMirror(ctx, owner, rel)
	}
	if err != nil {
		log.Printf("Reconcile %s/%s: cannot read mirror: %v", owner, rel.FriendUsername, err)
		return false
	}

	if rel.Status == models.RelationAccepted && mirror.Status != models.RelationAccepted {
		mirror.Status = models.RelationAccepted
		mirror.DateAdded = acceptDate(rel)
		if err := r.repo.UpdateRelation(ctx, mirror); err != nil {
			log.Printf("Reconcile %s/%s: cannot promote mirror: %v", owner, rel.FriendUsername, err)
		}
		// the owner's own row was already consistent
		return false
	}

	if mirror.Status == models.RelationAccepted && rel.Status != models.RelationAccepted {
		rel.Status = models.RelationAccepted
		rel.DateAdded = acceptDate(mirror)
		if err := r.repo.UpdateRelation(ctx, rel); err != nil {
			log.Printf("Reconcile %s/%s: cannot promote own row: %v", owner, rel.FriendUsername, err)
			return false
		}
		return true
	}

	return false
}

func (r *Reconciler) repairMissingMirror(ctx context.Context, owner string, rel *models.FriendRelation) bool {
	switch rel.Status {
	case models.RelationSent:
		// Our outgoing request never reached the other side, recreate it
		ownerUser, err := r.repo.GetUserByUsername(ctx, owner)
		if err != nil {
			log.Printf("Reconcile %s/%s: cannot load owner profile: %v", owner, rel.FriendUsername, err)
			return false
		}
		mirror := &models.FriendRelation{
			OwnerUsername:  rel.FriendUsername,
			FriendUsername: owner,
			FriendPfp:      ownerUser.Pfp,
			FriendEmail:    ownerUser.Email,
			Status:         models.RelationPending,
		}
		if err := r.repo.CreateRelation(ctx, mirror); err != nil {
			log.Printf("Reconcile %s/%s: cannot recreate mirror: %v", owner, rel.FriendUsername, err)
		}
		return false
	default:
		// pending or accepted with no counterpart: the other side
		// revoked the request, removed us, or deleted their account
		if err := r.repo.DeleteRelation(ctx, owner, rel.FriendUsername); err != nil {
			log.Printf("Reconcile %s/%s: cannot drop orphaned row: %v", owner, rel.FriendUsername, err)
			return false
		}
		return true
	}
}

func acceptDate(rel *models.FriendRelation) *time.Time {
	if rel.DateAdded != nil {
		copied := *rel.DateAdded
		return &copied
	}
	now := time.Now()
	return &now
}
