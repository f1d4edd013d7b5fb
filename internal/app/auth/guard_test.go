package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/jwt"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
)

const testSecret = "guard-test-secret"

func TestResolveIdentityEmptyToken(t *testing.T) {
	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), "")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
}

func TestResolveIdentityBadToken(t *testing.T) {
	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), "not.a.token")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
}

func TestResolveIdentityWrongSecret(t *testing.T) {
	token, err := jwt.GenerateToken(uuid.NewString(), "user", "some-other-secret")
	require.NoError(t, err)

	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
}

func TestResolveIdentityMalformedSubject(t *testing.T) {
	token, err := jwt.GenerateToken("not-a-uuid", "user", testSecret)
	require.NoError(t, err)

	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
}

func TestResolveIdentityDeletedAccount(t *testing.T) {
	userID := uuid.New()
	token, err := jwt.GenerateToken(userID.String(), "user", testSecret)
	require.NoError(t, err)

	st := &store.MockStore{}
	st.On("GetUserByID", mock.Anything, userID).Return(store.User{}, store.ErrNotFound)

	guard := auth.NewGuard(st, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
	st.AssertExpectations(t)
}

func TestResolveIdentityStoreFailure(t *testing.T) {
	userID := uuid.New()
	token, err := jwt.GenerateToken(userID.String(), "user", testSecret)
	require.NoError(t, err)

	st := &store.MockStore{}
	st.On("GetUserByID", mock.Anything, userID).Return(store.User{}, errors.New("connection refused"))

	guard := auth.NewGuard(st, testSecret)

	_, customErr := guard.ResolveIdentity(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnknown, customErr.Code)
}

func TestResolveIdentitySuccess(t *testing.T) {
	userID := uuid.New()
	token, err := jwt.GenerateToken(userID.String(), "admin", testSecret)
	require.NoError(t, err)

	want := store.User{ID: userID, Username: "mod", Role: store.RoleAdmin}

	st := &store.MockStore{}
	st.On("GetUserByID", mock.Anything, userID).Return(want, nil)

	guard := auth.NewGuard(st, testSecret)

	user, customErr := guard.ResolveIdentity(context.Background(), token)
	require.Nil(t, customErr)
	assert.Equal(t, want, user)
	st.AssertExpectations(t)
}

func TestAuthorizeBannedIdentity(t *testing.T) {
	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	user := store.User{
		ID:        uuid.New(),
		Role:      store.RoleUser,
		IsBanned:  true,
		BanReason: "spamming",
	}

	customErr := guard.Authorize(user, store.RoleUser, store.RoleAdmin, store.RoleRoot)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrBanned, customErr.Code)
	assert.Contains(t, customErr.Message, "spamming")
}

func TestAuthorizeRoleAllowList(t *testing.T) {
	guard := auth.NewGuard(&store.MockStore{}, testSecret)

	admin := store.User{ID: uuid.New(), Role: store.RoleAdmin}

	assert.Nil(t, guard.Authorize(admin, store.RoleAdmin, store.RoleRoot))

	customErr := guard.Authorize(admin, store.RoleRoot)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrForbidden, customErr.Code)
}
