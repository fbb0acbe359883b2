package user

import (
	"context"
	"errors"

	"github.com/mylibrary/mylibrary-api/internal/auth"
)

// AccountStore adapts the user store to the auth package's credential-lookup
// port, so the auth package stays free of user-package types.
type AccountStore struct {
	store Store
}

func NewAccountStore(store Store) *AccountStore {
	return &AccountStore{store: store}
}

func (a *AccountStore) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	u, err := a.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}

	return &auth.Account{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}, nil
}
