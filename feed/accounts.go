package feed

import (
	"context"
	"errors"
	"fmt"

	"photofeed/models"
	"photofeed/repositories"
)

// CreateAccount inserts user, whose Password must already be hashed.
func (s *Service) CreateAccount(ctx context.Context, user *models.User) error {
	if user.Username == "" || user.Password == "" || user.Filename == "" {
		return fmt.Errorf("incomplete account: %w", ErrInvalidArgument)
	}

	return s.store.WithTx(ctx, "create account", func(tx repositories.Store) error {
		_, err := tx.GetUser(ctx, user.Username)
		switch {
		case err == nil:
			return fmt.Errorf("user %s already exists: %w", user.Username, ErrConflict)
		case !errors.Is(err, repositories.ErrNotFound):
			return err
		}
		if user.Created.IsZero() {
			user.Created = s.now()
		}
		return tx.CreateUser(ctx, user)
	})
}
