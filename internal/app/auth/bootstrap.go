package auth

import (
	"context"
	"fmt"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/passwd"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

// RootSeed carries the credentials used to create the root account when the
// store has none.
type RootSeed struct {
	Username string
	Email    string
	Password string
}

// EnsureRootAccount seeds the single root account at process bootstrap.
// When a root already exists it does nothing; when the seed credentials are
// not configured it logs a warning and continues, leaving the system without
// a root until the next start.
func EnsureRootAccount(ctx context.Context, st store.Store, seed RootSeed) error {
	exists, err := st.HasRoot(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for root account: %w", err)
	}

	if exists {
		logx.Info("Root account already exists.")
		return nil
	}

	if seed.Username == "" || seed.Email == "" || seed.Password == "" {
		logx.Warn("Root account credentials not configured. Skipping root creation.")
		return nil
	}

	hashed, err := passwd.Hash(seed.Password, string(store.RoleRoot))
	if err != nil {
		return fmt.Errorf("failed to hash root password: %w", err)
	}

	root, err := st.CreateUser(ctx, store.CreateUserParams{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hashed,
		Role:         store.RoleRoot,
	})
	if err != nil {
		return fmt.Errorf("failed to create root account: %w", err)
	}

	logx.Info("Root account created successfully.", "user_id", root.ID.String())
	return nil
}
