package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/passwd"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
	"github.com/gustavoamc/sitem-backend/internal/pkg/req"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

const (
	// presignExpiration is the lifetime of avatar upload and download URLs.
	presignExpiration = 15 * time.Minute

	// maxAvatarBytes caps the declared avatar upload size.
	maxAvatarBytes = 5 << 20 // 5 MB
)

// allowedAvatarTypes are the accepted avatar MIME types.
var allowedAvatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// ProfileData is the response payload for profile reads and edits. AvatarURL
// is a short-lived presigned download URL, empty when no avatar is set.
type ProfileData struct {
	User      store.User `json:"user"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
}

// EditProfileInput is the request body for profile edits.
type EditProfileInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ChangePasswordInput is the request body for password changes.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AvatarUploadInput is the request body for requesting an avatar upload URL.
type AvatarUploadInput struct {
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// AvatarUploadData is the response payload for an avatar upload request.
type AvatarUploadData struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// HandleGetProfile returns the authenticated account's own profile.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		data := ProfileData{User: identity}

		if identity.AvatarKey != "" && deps.Avatars != nil {
			url, err := deps.Avatars.PresignDownload(r.Context(), identity.AvatarKey, presignExpiration)
			if err != nil {
				// The profile itself is still useful without the avatar link.
				logx.Warn("Failed to presign avatar download.", "user_id", identity.ID.String(), "error", err.Error())
			} else {
				data.AvatarURL = url
			}
		}

		resp.RespondSuccess(w, r, data)
	}
}

// HandleEditProfile updates the authenticated account's username and email.
// Both fields are required; uniqueness is checked against other accounts.
func HandleEditProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input EditProfileInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		input.Email = strings.TrimSpace(strings.ToLower(input.Email))

		if input.Username == "" || input.Email == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if taken, err := deps.Store.EmailInUse(r.Context(), input.Email, identity.ID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		} else if taken {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
			return
		}

		if taken, err := deps.Store.UsernameInUse(r.Context(), input.Username, identity.ID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		} else if taken {
			resp.RespondError(w, r, errs.NewError(errs.ErrUsernameTaken))
			return
		}

		user, err := deps.Store.UpdateUserProfile(r.Context(), store.UpdateProfileParams{
			ID:       identity.ID,
			Username: input.Username,
			Email:    input.Email,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, ProfileData{User: user})
	}
}

// HandleChangePassword changes the authenticated account's password after
// verifying the current one. The new hash uses the work factor for the
// account's role.
func HandleChangePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input ChangePasswordInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.CurrentPassword == "" || input.NewPassword == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !passwd.Verify(input.CurrentPassword, identity.PasswordHash) {
			resp.RespondError(w, r, errs.NewError(errs.ErrOldPasswordInvalid))
			return
		}

		if !passwd.ValidLength(input.NewPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword, passwd.MinLength, passwd.MaxLength))
			return
		}

		hash, err := passwd.Hash(input.NewPassword, string(identity.Role))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.Store.UpdateUserPassword(r.Context(), identity.ID, hash); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("Password changed.", "user_id", identity.ID.String())

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleAvatarUpload validates the declared avatar metadata, records the
// object key on the account, and returns a presigned upload URL.
func HandleAvatarUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input AvatarUploadInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if _, allowed := allowedAvatarTypes[input.MimeType]; !allowed {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.FileSize <= 0 || input.FileSize > maxAvatarBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		// One object per account; re-uploading overwrites the previous avatar.
		key := fmt.Sprintf("avatars/%s", identity.ID.String())

		uploadURL, err := deps.Avatars.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, presignExpiration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.Store.UpdateUserAvatar(r.Context(), identity.ID, key); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, AvatarUploadData{UploadURL: uploadURL, Key: key})
	}
}
