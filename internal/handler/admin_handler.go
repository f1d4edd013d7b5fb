package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/limiter"
	"github.com/gustavoamc/sitem-backend/internal/pkg/req"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

// BanInput is the request body for banning a user. BanUntil is optional;
// omitting it makes the ban permanent.
type BanInput struct {
	BanReason string     `json:"banReason"`
	BanUntil  *time.Time `json:"banUntil,omitempty"`
}

// UserListData is the response payload for the admin user listing.
type UserListData struct {
	Users []store.User `json:"users"`
}

// targetUserID parses the userId URL parameter.
func targetUserID(r *http.Request) (uuid.UUID, *errs.CustomError) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		return uuid.Nil, errs.NewError(errs.ErrInvalidParams)
	}
	return id, nil
}

// HandlePromote promotes a user-role account to admin. Root only.
func HandlePromote(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		targetID, customErr := targetUserID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Moderation.Promote(r.Context(), identity, targetID, limiter.ClientIP(r)); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleDemote demotes an admin back to the user role. Root only.
func HandleDemote(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		targetID, customErr := targetUserID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Moderation.Demote(r.Context(), identity, targetID, limiter.ClientIP(r)); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleBan bans a user. Admins can ban users; root can ban users and admins.
func HandleBan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		targetID, customErr := targetUserID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input BanInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.BanReason = strings.TrimSpace(input.BanReason)
		if input.BanReason == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Moderation.Ban(r.Context(), identity, targetID, input.BanReason, input.BanUntil, limiter.ClientIP(r)); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleUnban lifts a ban. The same pairwise rules as banning apply.
func HandleUnban(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		targetID, customErr := targetUserID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Moderation.Unban(r.Context(), identity, targetID, limiter.ClientIP(r)); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleListUsers returns the moderatable user listing. Optional query
// filters: role (comma-separated) and isBanned (true/false). Root accounts
// never appear in the result.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var roles []store.Role
		if roleParam := r.URL.Query().Get("role"); roleParam != "" {
			for _, raw := range strings.Split(roleParam, ",") {
				role, valid := store.ParseRole(strings.TrimSpace(raw))
				if !valid {
					resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
					return
				}
				roles = append(roles, role)
			}
		}

		var banned *bool
		if bannedParam := r.URL.Query().Get("isBanned"); bannedParam != "" {
			value, err := strconv.ParseBool(bannedParam)
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			banned = &value
		}

		users, customErr := deps.Moderation.ListUsers(r.Context(), identity, roles, banned)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, UserListData{Users: users})
	}
}
