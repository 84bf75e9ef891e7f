package friends

import (
	"Cardex/apperrors"
	models "Cardex/models/postgres"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsers(repo *InMemoryRepository) {
	repo.AddUser(&models.User{ID: "u1", Email: "ana@test.com", Username: "ana", Pfp: "tcgpfp"})
	repo.AddUser(&models.User{ID: "u2", Email: "bob@test.com", Username: "bob", Pfp: "tcgpfp2"})
	repo.AddUser(&models.User{ID: "u3", Email: "cleo@test.com", Username: "cleo", Pfp: "tcgpfp3"})
}

func TestSendRequestCreatesMirrorPair(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	outcome, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend request sent to bob!", outcome.Message)
	assert.Nil(t, outcome.Warning)

	sent, err := repo.GetRelation(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RelationSent, sent.Status)
	assert.Equal(t, "tcgpfp2", sent.FriendPfp)
	assert.Equal(t, "bob@test.com", sent.FriendEmail)

	pending, err := repo.GetRelation(ctx, "bob", "ana")
	require.NoError(t, err)
	assert.Equal(t, models.RelationPending, pending.Status)
	assert.Equal(t, "tcgpfp", pending.FriendPfp)
	assert.Equal(t, "ana@test.com", pending.FriendEmail)
}

func TestSendRequestNormalizesTargetUsername(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)

	_, err := d.SendRequest(context.Background(), "ana@test.com", "  BOB ")
	require.NoError(t, err)

	_, err = repo.GetRelation(context.Background(), "ana", "bob")
	assert.NoError(t, err)
}

func TestSendRequestValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	t.Run("empty username", func(t *testing.T) {
		_, err := d.SendRequest(ctx, "ana@test.com", "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Contains(t, err.Error(), "please enter a username")
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := d.SendRequest(ctx, "ana@test.com", "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "No user found with username 'ghost'")
	})

	t.Run("self reference", func(t *testing.T) {
		_, err := d.SendRequest(ctx, "ana@test.com", "ana")
		assert.ErrorIs(t, err, apperrors.ErrSelfReference)
		assert.Contains(t, err.Error(), "cannot add yourself")
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := d.SendRequest(ctx, "ghost@test.com", "bob")
		assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	})
}

func TestSendRequestRejectsExistingRelationOnEitherSide(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	// Same direction again
	_, err = d.SendRequest(ctx, "ana@test.com", "bob")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// Opposite direction while the request is outstanding
	_, err = d.SendRequest(ctx, "bob@test.com", "ana")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestSendRequestPartialMirror(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	// The recipient's side fails, the sender's side commits
	repo.FailWritesFor["bob"] = true

	outcome, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend request sent to bob!", outcome.Message)
	require.Error(t, outcome.Warning)
	assert.ErrorIs(t, outcome.Warning, apperrors.ErrPartialMirrorFailure)

	_, err = repo.GetRelation(ctx, "ana", "bob")
	assert.NoError(t, err)
	_, err = repo.GetRelation(ctx, "bob", "ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSendRequestPrimaryFailureIsAnError(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)

	repo.FailWritesFor["ana"] = true

	_, err := d.SendRequest(context.Background(), "ana@test.com", "bob")
	assert.ErrorIs(t, err, apperrors.ErrStoreOperationFailed)
}

func TestAcceptRequest(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	d.clock = func() time.Time { return fixed }

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	outcome, err := d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)
	assert.Equal(t, "Friend request accepted!", outcome.Message)
	assert.Nil(t, outcome.Warning)

	for _, pair := range [][2]string{{"bob", "ana"}, {"ana", "bob"}} {
		rel, err := repo.GetRelation(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.RelationAccepted, rel.Status)
		require.NotNil(t, rel.DateAdded)
		assert.Equal(t, fixed, *rel.DateAdded)
	}
}

func TestAcceptRequestRequiresPending(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	// The sender cannot accept their own outgoing request
	_, err = d.AcceptRequest(ctx, "ana@test.com", "bob")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Accepting a relation that does not exist
	_, err = d.AcceptRequest(ctx, "cleo@test.com", "ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptRequestPartialMirror(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	repo.FailWritesFor["ana"] = true

	outcome, err := d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)
	assert.ErrorIs(t, outcome.Warning, apperrors.ErrPartialMirrorFailure)

	// The actor's side accepted, the counterpart still says sent
	mine, err := repo.GetRelation(ctx, "bob", "ana")
	require.NoError(t, err)
	assert.Equal(t, models.RelationAccepted, mine.Status)

	theirs, err := repo.GetRelation(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RelationSent, theirs.Status)
}

func TestRemoveRelationDeletesBothSides(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	_, err = d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)

	outcome, err := d.RemoveRelation(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend removed successfully", outcome.Message)

	_, err = repo.GetRelation(ctx, "ana", "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.GetRelation(ctx, "bob", "ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveRelationSucceedsOnPrimaryDeleteAlone(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	_, err = d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)

	repo.FailWritesFor["bob"] = true

	outcome, err := d.RemoveRelation(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend removed successfully", outcome.Message)
	assert.ErrorIs(t, outcome.Warning, apperrors.ErrPartialMirrorFailure)

	// Only the actor's row is gone
	_, err = repo.GetRelation(ctx, "ana", "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.GetRelation(ctx, "bob", "ana")
	assert.NoError(t, err)
}

func TestRemoveRelationMissing(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)

	_, err := d.RemoveRelation(context.Background(), "ana@test.com", "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeclineRequestRemovesBothRows(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	_, err = d.DeclineRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)

	_, err = repo.GetRelation(ctx, "bob", "ana")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.GetRelation(ctx, "ana", "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// A new request can be sent again afterwards
	_, err = d.SendRequest(ctx, "ana@test.com", "bob")
	assert.NoError(t, err)
}

func TestToggleFavoriteIsLocalOnly(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	_, err = d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)

	outcome, err := d.ToggleFavorite(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend marked as favorite", outcome.Message)

	mine, err := repo.GetRelation(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.True(t, mine.IsFavorite)

	// Never mirrored
	theirs, err := repo.GetRelation(ctx, "bob", "ana")
	require.NoError(t, err)
	assert.False(t, theirs.IsFavorite)

	outcome, err = d.ToggleFavorite(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Friend unmarked as favorite", outcome.Message)

	mine, err = repo.GetRelation(ctx, "ana", "bob")
	require.NoError(t, err)
	assert.False(t, mine.IsFavorite)
}

type recordingNotifier struct {
	published []string
}

func (n *recordingNotifier) PublishFriendsUpdate(ctx context.Context, username string) error {
	n.published = append(n.published, username)
	return nil
}

func TestMutationsNotifyBothSides(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	notifier := &recordingNotifier{}
	d := NewDirectory(repo, notifier)
	ctx := context.Background()

	_, err := d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "bob"}, notifier.published)

	notifier.published = nil
	_, err = d.AcceptRequest(ctx, "bob@test.com", "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "ana"}, notifier.published)

	// Favorites only change the actor's own view
	notifier.published = nil
	_, err = d.ToggleFavorite(ctx, "ana@test.com", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, notifier.published)
}

func TestSnapshotResolvesActor(t *testing.T) {
	repo := NewInMemoryRepository()
	newTestUsers(repo)
	d := NewDirectory(repo, nil)
	ctx := context.Background()

	_, err := d.Snapshot(ctx, "ghost@test.com")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = d.SendRequest(ctx, "ana@test.com", "bob")
	require.NoError(t, err)

	snapshot, err := d.Snapshot(ctx, "ana@test.com")
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "bob", snapshot[0].FriendUsername)
	assert.Equal(t, models.RelationSent, snapshot[0].Status)
}
