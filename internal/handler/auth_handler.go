package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/jwt"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/passwd"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
	"github.com/gustavoamc/sitem-backend/internal/pkg/req"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionData is the response payload for register and login.
type SessionData struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// HandleRegister creates a new user-role account and issues a session token.
// Registration never creates privileged accounts.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		input.Email = strings.TrimSpace(strings.ToLower(input.Email))

		if input.Username == "" || input.Email == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !passwd.ValidLength(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword, passwd.MinLength, passwd.MaxLength))
			return
		}

		hash, err := passwd.Hash(input.Password, string(store.RoleUser))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		user, err := deps.Store.CreateUser(r.Context(), store.CreateUserParams{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Role:         store.RoleUser,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		token, err := jwt.GenerateToken(user.ID.String(), string(user.Role), deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("New account registered.", "user_id", user.ID.String())

		resp.RespondSuccess(w, r, SessionData{Token: token, User: user})
	}
}

// HandleLogin verifies credentials and issues a session token. Failed lookups
// and failed password checks are indistinguishable to the caller. A banned
// account can still log in; the ban gate runs on every authorized request.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Email = strings.TrimSpace(strings.ToLower(input.Email))

		if input.Email == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Store.GetUserByEmail(r.Context(), input.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if !passwd.Verify(input.Password, user.PasswordHash) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := jwt.GenerateToken(user.ID.String(), string(user.Role), deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, SessionData{Token: token, User: user})
	}
}
