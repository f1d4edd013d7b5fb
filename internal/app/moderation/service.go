/*
Package moderation implements role promotion/demotion and ban management.

The ban rules are deliberately pairwise rather than hierarchical: root is
never bannable, and a target sharing the actor's role is never bannable or
unbannable, which blocks admin-on-admin bans and self-bans in one rule.
Moderation actions are recorded in the audit log best-effort.
*/
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

// Service coordinates moderation operations against the user store.
type Service struct {
	store  store.Store
	logger zerolog.Logger
}

// NewService constructs a moderation Service on top of the given store.
func NewService(st store.Store) *Service {
	return &Service{
		store:  st,
		logger: logx.Logger().With().Str("component", "moderation").Logger(),
	}
}

// Promote raises a target account to admin. Only root may promote, and a
// target that is already an admin is a conflict. Promoting directly to root
// is not supported.
func (s *Service) Promote(ctx context.Context, actor store.User, targetID uuid.UUID, ip string) *errs.CustomError {
	if actor.Role != store.RoleRoot {
		return errs.NewError(errs.ErrForbidden)
	}

	target, customErr := s.fetchUser(ctx, targetID)
	if customErr != nil {
		return customErr
	}

	if target.Role == store.RoleAdmin {
		return errs.NewError(errs.ErrAlreadyAdmin)
	}

	if err := s.store.UpdateUserRole(ctx, targetID, store.RoleAdmin); err != nil {
		return s.mapStoreErr(err, "Failed to promote user.", targetID)
	}

	s.audit(ctx, actor, fmt.Sprintf("promote %s", targetID), ip)
	return nil
}

// Demote lowers an admin back to user. Only root may demote, and a target
// that is not an admin is a conflict.
func (s *Service) Demote(ctx context.Context, actor store.User, targetID uuid.UUID, ip string) *errs.CustomError {
	if actor.Role != store.RoleRoot {
		return errs.NewError(errs.ErrForbidden)
	}

	target, customErr := s.fetchUser(ctx, targetID)
	if customErr != nil {
		return customErr
	}

	if target.Role != store.RoleAdmin {
		return errs.NewError(errs.ErrNotAdmin)
	}

	if err := s.store.UpdateUserRole(ctx, targetID, store.RoleUser); err != nil {
		return s.mapStoreErr(err, "Failed to demote user.", targetID)
	}

	s.audit(ctx, actor, fmt.Sprintf("demote %s", targetID), ip)
	return nil
}

// Ban marks a target as banned with a reason and optional end date. Root and
// same-role targets are unbannable, which also rules out self-bans.
func (s *Service) Ban(ctx context.Context, actor store.User, targetID uuid.UUID, reason string, until *time.Time, ip string) *errs.CustomError {
	target, customErr := s.fetchUser(ctx, targetID)
	if customErr != nil {
		return customErr
	}

	if target.Role == store.RoleRoot || target.Role == actor.Role {
		return errs.NewError(errs.ErrCannotBan)
	}

	if err := s.store.SetUserBan(ctx, targetID, true, reason, until); err != nil {
		return s.mapStoreErr(err, "Failed to ban user.", targetID)
	}

	s.audit(ctx, actor, fmt.Sprintf("ban %s", targetID), ip)
	return nil
}

// Unban clears a target's ban flags. Same-role targets cannot be unbanned,
// and a target that is not banned is a conflict.
func (s *Service) Unban(ctx context.Context, actor store.User, targetID uuid.UUID, ip string) *errs.CustomError {
	target, customErr := s.fetchUser(ctx, targetID)
	if customErr != nil {
		return customErr
	}

	if target.Role == actor.Role {
		return errs.NewError(errs.ErrCannotUnban)
	}

	if !target.IsBanned {
		return errs.NewError(errs.ErrNotBanned)
	}

	if err := s.store.SetUserBan(ctx, targetID, false, "", nil); err != nil {
		return s.mapStoreErr(err, "Failed to unban user.", targetID)
	}

	s.audit(ctx, actor, fmt.Sprintf("unban %s", targetID), ip)
	return nil
}

// ListUsers returns accounts matching the role and ban filters. The root
// account never appears in the result; root entries in the role filter are
// stripped rather than honored.
func (s *Service) ListUsers(ctx context.Context, actor store.User, roles []store.Role, banned *bool) ([]store.User, *errs.CustomError) {
	filtered := make([]store.Role, 0, len(roles))
	for _, r := range roles {
		if r == store.RoleRoot {
			s.logger.Warn().
				Str("actor_id", actor.ID.String()).
				Msg("Role filter requested root accounts. Entry ignored.")
			continue
		}
		filtered = append(filtered, r)
	}

	users, err := s.store.ListUsers(ctx, store.ListUsersParams{
		Roles:  filtered,
		Banned: banned,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return users, nil
}

// fetchUser loads a target account and maps the missing case onto the error
// taxonomy.
func (s *Service) fetchUser(ctx context.Context, targetID uuid.UUID) (store.User, *errs.CustomError) {
	target, err := s.store.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("target_id", targetID.String()).Msg("Failed to fetch user.")
		return store.User{}, errs.NewError(errs.ErrUnknown)
	}
	return target, nil
}

func (s *Service) mapStoreErr(err error, msg string, targetID uuid.UUID) *errs.CustomError {
	if errors.Is(err, store.ErrNotFound) {
		return errs.NewError(errs.ErrUserNotFound)
	}
	s.logger.Error().Err(err).Str("target_id", targetID.String()).Msg(msg)
	return errs.NewError(errs.ErrUnknown)
}

// audit records a moderation action best-effort; a failing audit write never
// fails the operation itself.
func (s *Service) audit(ctx context.Context, actor store.User, action, ip string) {
	err := s.store.CreateAuditLog(ctx, store.CreateAuditLogParams{
		UserID: actor.ID,
		Action: action,
		IP:     ip,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Failed to write audit log entry.")
	}
}
