package friends

import (
	models "Cardex/models/postgres"
	"context"
	"errors"
	"log"
	"time"
)

// ErrSessionClosed is returned by Reload once Close has been called.
var ErrSessionClosed = errors.New("session closed")

// SnapshotFunc loads a user's full relation set; Directory.SnapshotByUsername
// is the production implementation.
type SnapshotFunc func(ctx context.Context, owner string) ([]models.FriendRelation, error)

// reloadTimeout bounds a snapshot load triggered by a change
// notification so a stuck store cannot wedge the session goroutine.
const reloadTimeout = 10 * time.Second

// Session is the live, filterable view of one user's friend list. All
// state (the relation snapshot, the active filter, the search text)
// is owned by a single goroutine; every method funnels its work through
// that goroutine, so notification-driven reloads and caller-driven
// filter changes never interleave.
type Session struct {
	owner string
	load  SnapshotFunc

	cmds chan func()
	quit chan struct{}

	// owned by the run goroutine
	relations []models.FriendRelation
	filter    Filter
	search    string
}

func NewSession(owner string, load SnapshotFunc) *Session {
	s := &Session{
		owner:  owner,
		load:   load,
		cmds:   make(chan func()),
		quit:   make(chan struct{}),
		filter: FilterAll,
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-s.quit:
			return
		}
	}
}

// do executes fn on the session goroutine and waits for it to finish.
// It reports false when the session is closed and fn never ran.
func (s *Session) do(fn func()) bool {
	done := make(chan struct{})
	select {
	case s.cmds <- func() {
		fn()
		close(done)
	}:
		<-done
		return true
	case <-s.quit:
		return false
	}
}

// Reload replaces the snapshot with a fresh load and returns the view
// under the current filter and search.
func (s *Session) Reload(ctx context.Context) ([]models.FriendRelation, error) {
	var (
		view []models.FriendRelation
		err  error
	)
	ran := s.do(func() {
		ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()

		var relations []models.FriendRelation
		relations, err = s.load(ctx, s.owner)
		if err != nil {
			return
		}
		s.relations = relations
		view = ApplyFilter(s.relations, s.filter, s.search)
	})
	if !ran {
		return nil, ErrSessionClosed
	}
	return view, err
}

// SetFilter switches the active filter and returns the refreshed view.
func (s *Session) SetFilter(filter Filter) []models.FriendRelation {
	var view []models.FriendRelation
	s.do(func() {
		s.filter = filter
		view = ApplyFilter(s.relations, s.filter, s.search)
	})
	return view
}

// SetSearch changes the search text and returns the refreshed view.
func (s *Session) SetSearch(text string) []models.FriendRelation {
	var view []models.FriendRelation
	s.do(func() {
		s.search = text
		view = ApplyFilter(s.relations, s.filter, s.search)
	})
	return view
}

// View returns the current filtered view without reloading.
func (s *Session) View() []models.FriendRelation {
	var view []models.FriendRelation
	s.do(func() {
		view = ApplyFilter(s.relations, s.filter, s.search)
	})
	return view
}

// Count counts the snapshot's relations under a filter, independent of
// the session's own filter and search text.
func (s *Session) Count(filter Filter) int {
	var count int
	s.do(func() {
		count = CountFor(s.relations, filter)
	})
	return count
}

// Watch consumes change notifications until the channel closes or ctx
// ends, reloading the snapshot and handing the refreshed view to
// onUpdate after every notification.
func (s *Session) Watch(ctx context.Context, notifications <-chan string, onUpdate func([]models.FriendRelation)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notifications:
			if !ok {
				return
			}
			view, err := s.Reload(ctx)
			if err != nil {
				if errors.Is(err, ErrSessionClosed) {
					return
				}
				log.Printf("Session %s: reload after notification failed: %v", s.owner, err)
				continue
			}
			onUpdate(view)
		}
	}
}

// Close stops the session goroutine. The session must not be used after.
func (s *Session) Close() {
	close(s.quit)
}
