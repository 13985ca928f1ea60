// Package feed decides which posts a viewer may see, assembles each post's
// likes, comments and owner data, paginates the result, and guards the
// mutations that change feed content.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photofeed/repositories"
)

// Viewer is the authenticated identity of the current request. The zero
// value is an anonymous viewer.
type Viewer struct {
	Username string
}

// Authenticated reports whether the viewer has a username.
func (v Viewer) Authenticated() bool {
	return v.Username != ""
}

// Service is the feed engine. It keeps no per-request state, so one Service
// serves all requests.
type Service struct {
	store repositories.Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to humanize post ages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store repositories.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireViewer(v Viewer) error {
	if !v.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// requireAccount fails with ErrUnauthenticated when the viewer's account
// has been deleted. Call it inside the transaction that writes rows owned by
// the viewer.
func requireAccount(ctx context.Context, tx repositories.Store, viewer Viewer) error {
	_, err := tx.GetUser(ctx, viewer.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("account %s no longer exists: %w", viewer.Username, ErrUnauthenticated)
	}
	return err
}

// translate maps store errors onto the feed taxonomy.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
