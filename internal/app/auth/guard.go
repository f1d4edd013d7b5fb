/*
Package auth implements the authorization guard: it resolves the acting
identity from a session token and enforces ban and role checks before any
privileged operation proceeds.

Identity resolution and authorization are separate contracts so the guard
composes with per-route role allow-lists instead of hardcoding them.
*/
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/jwt"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

// Guard resolves session tokens into account identities and enforces
// ban and role gates.
type Guard struct {
	store  store.Store
	secret string
	logger zerolog.Logger
}

// NewGuard constructs a Guard on top of the given store and signing secret.
func NewGuard(st store.Store, secret string) *Guard {
	return &Guard{
		store:  st,
		secret: secret,
		logger: logx.Logger().With().Str("component", "guard").Logger(),
	}
}

// ResolveIdentity resolves a raw session token into the stored account.
// Each step is a hard gate: a missing token, a failed signature or expiry
// check, and a deleted subject all yield the unauthenticated outcome.
func (g *Guard) ResolveIdentity(ctx context.Context, rawToken string) (store.User, *errs.CustomError) {
	if rawToken == "" {
		return store.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	payload, err := jwt.ParseToken(rawToken, g.secret)
	if err != nil {
		g.logger.Debug().Err(err).Msg("Session token rejected.")
		return store.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	subjectID, err := uuid.Parse(payload.ID)
	if err != nil {
		g.logger.Warn().Str("subject", payload.ID).Msg("Valid token with malformed subject ID.")
		return store.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	user, err := g.store.GetUserByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The account may have been deleted after the token was issued.
			return store.User{}, errs.NewError(errs.ErrUnauthorized)
		}
		g.logger.Error().Err(err).Msg("Identity lookup failed.")
		return store.User{}, errs.NewError(errs.ErrUnknown)
	}

	return user, nil
}

// Authorize checks the resolved identity against the ban flag and the route's
// role allow-list. A banned identity is rejected with the ban reason in the
// message even when its token still verifies.
func (g *Guard) Authorize(user store.User, allowedRoles ...store.Role) *errs.CustomError {
	if user.IsBanned {
		return errs.NewError(errs.ErrBanned, user.BanReason)
	}

	for _, role := range allowedRoles {
		if user.Role == role {
			return nil
		}
	}

	return errs.NewError(errs.ErrForbidden)
}
