package memory

import (
	"context"
	"time"

	"petquest/internal/app/ports"
	"petquest/internal/domain/adventure"
)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepo {
	return SessionRepo{store: store}
}

func (r SessionRepo) Create(ctx context.Context, session adventure.Session) error {
	var err error
	r.store.with(ctx, func() {
		if _, exists := r.store.sessions[session.ID]; exists {
			err = ports.ErrDuplicate
			return
		}
		r.store.sessions[session.ID] = session
	})
	return err
}

func (r SessionRepo) GetForUpdate(ctx context.Context, sessionID string) (adventure.Session, error) {
	var (
		session adventure.Session
		ok      bool
	)
	r.store.with(ctx, func() {
		session, ok = r.store.sessions[sessionID]
	})
	if !ok {
		return adventure.Session{}, ports.ErrNotFound
	}
	return session, nil
}

func (r SessionRepo) SaveResolution(ctx context.Context, session adventure.Session) error {
	var err error
	r.store.with(ctx, func() {
		current, ok := r.store.sessions[session.ID]
		if !ok {
			err = ports.ErrNotFound
			return
		}
		if current.Status != adventure.StatusInProgress {
			err = ports.ErrConflict
			return
		}
		r.store.sessions[session.ID] = session
	})
	return err
}

func (r SessionRepo) CountStartedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	n := 0
	r.store.with(ctx, func() {
		for _, s := range r.store.sessions {
			if s.UserID == userID && !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
				n++
			}
		}
	})
	return n, nil
}

func (r SessionRepo) HasInProgress(ctx context.Context, petID string) (bool, error) {
	found := false
	r.store.with(ctx, func() {
		for _, s := range r.store.sessions {
			if s.PetID == petID && s.InProgress() {
				found = true
				return
			}
		}
	})
	return found, nil
}
