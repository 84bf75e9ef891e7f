package friends

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Notifier tells a user's live sessions that their relation set changed.
// The Redis client implements it in production; tests pass nil.
type Notifier interface {
	PublishFriendsUpdate(ctx context.Context, username string) error
}

// Outcome is the result of a mutating directory operation. Warning holds
// a PartialMirrorFailure when the secondary side of a mirrored write
// failed after the primary one was already committed; the operation
// still counts as successful.
type Outcome struct {
	Message string
	Warning error
}

// Directory owns the bidirectional friend-relationship state machine.
// Every pair of users is stored as two mirror rows; within one operation
// the actor's row is always written first and awaited before the
// counterpart's row is touched. A counterpart failure never rolls back
// the actor's write, it surfaces as Outcome.Warning and is repaired by
// the Reconciler on a later read.
type Directory struct {
	repo     Repository
	notifier Notifier
	clock    func() time.Time
}

func NewDirectory(repo Repository, notifier Notifier) *Directory {
	return &Directory{
		repo:     repo,
		notifier: notifier,
		clock:    time.Now,
	}
}

// actor resolves the authenticated user issuing the operation.
func (d *Directory) actor(ctx context.Context, actorEmail string) (*models.User, error) {
	user, err := d.repo.GetUserByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, err
	}
	return user, nil
}

// SendRequest creates the two mirror rows of a new friend request:
// the actor's copy with status "sent" first, then the target's copy with
// status "pending", each carrying the other side's profile snapshot.
func (d *Directory) SendRequest(ctx context.Context, actorEmail, targetUsername string) (Outcome, error) {
	actor, err := d.actor(ctx, actorEmail)
	if err != nil {
		return Outcome{}, err
	}

	targetUsername = strings.ToLower(strings.TrimSpace(targetUsername))
	if targetUsername == "" {
		return Outcome{}, apperrors.Validation("please enter a username")
	}

	target, err := d.repo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Outcome{}, fmt.Errorf("No user found with username '%s': %w", targetUsername, apperrors.ErrNotFound)
		}
		return Outcome{}, err
	}

	if target.Username == actor.Username {
		return Outcome{}, apperrors.ErrSelfReference
	}

	// A relation in any status, on either side, blocks a new request
	if _, err := d.repo.GetRelation(ctx, actor.Username, target.Username); err == nil {
		return Outcome{}, apperrors.AlreadyExists("friend relation")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return Outcome{}, err
	}
	if _, err := d.repo.GetRelation(ctx, target.Username, actor.Username); err == nil {
		return Outcome{}, apperrors.AlreadyExists("friend relation")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return Outcome{}, err
	}

	// Primary write: the actor's own copy
	sent := &models.FriendRelation{
		OwnerUsername:  actor.Username,
		FriendUsername: target.Username,
		FriendPfp:      target.Pfp,
		FriendEmail:    target.Email,
		Status:         models.RelationSent,
	}
	if err := d.repo.CreateRelation(ctx, sent); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Message: fmt.Sprintf("Friend request sent to %s!", target.Username)}

	// Secondary write: the target's mirror copy
	pending := &models.FriendRelation{
		OwnerUsername:  target.Username,
		FriendUsername: actor.Username,
		FriendPfp:      actor.Pfp,
		FriendEmail:    actor.Email,
		Status:         models.RelationPending,
	}
	if err := d.repo.CreateRelation(ctx, pending); err != nil {
		outcome.Warning = apperrors.PartialMirror("recipient", err)
		log.Printf("Friend request %s -> %s: %v", actor.Username, target.Username, outcome.Warning)
	}

	d.notify(ctx, actor.Username, target.Username)
	return outcome, nil
}

// AcceptRequest turns a pending request into an accepted friendship,
// stamping the date it happened on both mirror rows.
func (d *Directory) AcceptRequest(ctx context.Context, actorEmail, friendUsername string) (Outcome, error) {
	actor, err := d.actor(ctx, actorEmail)
	if err != nil {
		return Outcome{}, err
	}

	rel, err := d.repo.GetRelation(ctx, actor.Username, friendUsername)
	if err != nil {
		return Outcome{}, err
	}
	if rel.Status != models.RelationPending {
		return Outcome{}, apperrors.Validation("friend request is not pending")
	}

	now := d.clock()
	rel.Status = models.RelationAccepted
	rel.DateAdded = &now
	if err := d.repo.UpdateRelation(ctx, rel); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Message: "Friend request accepted!"}

	// Counterpart update is best effort, the actor's accept stands either way
	mirror, err := d.repo.GetRelation(ctx, friendUsername, actor.Username)
	if err == nil {
		mirror.Status = models.RelationAccepted
		mirror.DateAdded = &now
		err = d.repo.UpdateRelation(ctx, mirror)
	}
	if err != nil {
		outcome.Warning = apperrors.PartialMirror("counterpart", err)
		log.Printf("Accept %s -> %s: %v", actor.Username, friendUsername, outcome.Warning)
	}

	d.notify(ctx, actor.Username, friendUsername)
	return outcome, nil
}

// DeclineRequest removes an incoming request. It is the same operation
// as removing an established friendship: both mirror rows go away.
func (d *Directory) DeclineRequest(ctx context.Context, actorEmail, friendUsername string) (Outcome, error) {
	return d.RemoveRelation(ctx, actorEmail, friendUsername)
}

// RemoveRelation deletes the actor's row and reports success based on
// that deletion alone; the counterpart's row is deleted best effort.
func (d *Directory) RemoveRelation(ctx context.Context, actorEmail, friendUsername string) (Outcome, error) {
	actor, err := d.actor(ctx, actorEmail)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := d.repo.GetRelation(ctx, actor.Username, friendUsername); err != nil {
		return Outcome{}, err
	}

	if err := d.repo.DeleteRelation(ctx, actor.Username, friendUsername); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Message: "Friend removed successfully"}

	if err := d.repo.DeleteRelation(ctx, friendUsername, actor.Username); err != nil {
		outcome.Warning = apperrors.PartialMirror("counterpart", err)
		log.Printf("Remove %s -> %s: %v", actor.Username, friendUsername, outcome.Warning)
	}

	d.notify(ctx, actor.Username, friendUsername)
	return outcome, nil
}

// ToggleFavorite flips the favorite flag on the actor's own row.
// Favorites are a local annotation and are never mirrored.
func (d *Directory) ToggleFavorite(ctx context.Context, actorEmail, friendUsername string) (Outcome, error) {
	actor, err := d.actor(ctx, actorEmail)
	if err != nil {
		return Outcome{}, err
	}

	rel, err := d.repo.GetRelation(ctx, actor.Username, friendUsername)
	if err != nil {
		return Outcome{}, err
	}

	rel.IsFavorite = !rel.IsFavorite
	if err := d.repo.UpdateRelation(ctx, rel); err != nil {
		return Outcome{}, err
	}

	d.notify(ctx, actor.Username)

	if rel.IsFavorite {
		return Outcome{Message: "Friend marked as favorite"}, nil
	}
	return Outcome{Message: "Friend unmarked as favorite"}, nil
}

// Snapshot loads the actor's full relation set, repairing any
// asymmetric mirror pairs on the way (see Reconciler).
func (d *Directory) Snapshot(ctx context.Context, actorEmail string) ([]models.FriendRelation, error) {
	actor, err := d.actor(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	return d.SnapshotByUsername(ctx, actor.Username)
}

// SnapshotByUsername is Snapshot for callers that already resolved the
// actor, such as live socket sessions.
func (d *Directory) SnapshotByUsername(ctx context.Context, username string) ([]models.FriendRelation, error) {
	reconciler := NewReconciler(d.repo)
	return reconciler.Repair(ctx, username)
}

func (d *Directory) notify(ctx context.Context, usernames ...string) {
	if d.notifier == nil {
		return
	}
	for _, username := range usernames {
		if err := d.notifier.PublishFriendsUpdate(ctx, username); err != nil {
			log.Printf("Error notifying friends update for %s: %v", username, err)
		}
	}
}
