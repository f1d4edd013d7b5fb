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
	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/passwd"
)

func TestEnsureRootAccountAlreadyExists(t *testing.T) {
	st := &store.MockStore{}
	st.On("HasRoot", mock.Anything).Return(true, nil)

	err := auth.EnsureRootAccount(context.Background(), st, auth.RootSeed{
		Username: "root",
		Email:    "root@example.com",
		Password: "rootpassword",
	})

	require.NoError(t, err)
	st.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestEnsureRootAccountMissingSeed(t *testing.T) {
	st := &store.MockStore{}
	st.On("HasRoot", mock.Anything).Return(false, nil)

	err := auth.EnsureRootAccount(context.Background(), st, auth.RootSeed{})

	require.NoError(t, err)
	st.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestEnsureRootAccountCreatesRoot(t *testing.T) {
	st := &store.MockStore{}
	st.On("HasRoot", mock.Anything).Return(false, nil)
	st.On("CreateUser", mock.Anything, mock.MatchedBy(func(params store.CreateUserParams) bool {
		return params.Role == store.RoleRoot &&
			params.Username == "root" &&
			params.Email == "root@example.com" &&
			passwd.Verify("rootpassword", params.PasswordHash)
	})).Return(store.User{ID: uuid.New(), Role: store.RoleRoot}, nil)

	err := auth.EnsureRootAccount(context.Background(), st, auth.RootSeed{
		Username: "root",
		Email:    "root@example.com",
		Password: "rootpassword",
	})

	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestEnsureRootAccountStoreFailure(t *testing.T) {
	st := &store.MockStore{}
	st.On("HasRoot", mock.Anything).Return(false, errors.New("connection refused"))

	err := auth.EnsureRootAccount(context.Background(), st, auth.RootSeed{})
	assert.Error(t, err)
}
