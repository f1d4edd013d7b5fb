package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify-based Store implementation for component tests.
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UsernameInUse(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) HasRoot(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context, params ListUsersParams) ([]User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockStore) UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockStore) SetUserBan(ctx context.Context, id uuid.UUID, banned bool, reason string, until *time.Time) error {
	args := m.Called(ctx, id, banned, reason, until)
	return args.Error(0)
}

func (m *MockStore) UpdateUserProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockStore) UpdateUserAvatar(ctx context.Context, id uuid.UUID, avatarKey string) error {
	args := m.Called(ctx, id, avatarKey)
	return args.Error(0)
}

func (m *MockStore) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Room), args.Error(1)
}

func (m *MockStore) GetRoomByID(ctx context.Context, id uuid.UUID) (Room, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Room), args.Error(1)
}

func (m *MockStore) ListRoomsByParticipant(ctx context.Context, userID uuid.UUID) ([]Room, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Room), args.Error(1)
}

func (m *MockStore) UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Room), args.Error(1)
}

func (m *MockStore) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *MockStore) RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *MockStore) CreateMessage(ctx context.Context, params CreateMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockStore) CreateAuditLog(ctx context.Context, params CreateAuditLogParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
