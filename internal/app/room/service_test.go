package room_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gustavoamc/sitem-backend/internal/app/room"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "rooms_name_key"}
}

func TestCreateRoomEmptyName(t *testing.T) {
	st := &store.MockStore{}
	svc := room.NewService(st)

	creator := store.User{ID: uuid.New(), Role: store.RoleUser}

	for _, name := range []string{"", "   ", "\t"} {
		_, customErr := svc.Create(context.Background(), creator, name, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrRoomNameRequired, customErr.Code)
	}

	st.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything)
}

func TestCreateRoomNameTaken(t *testing.T) {
	st := &store.MockStore{}
	st.On("CreateRoom", mock.Anything, mock.Anything).Return(store.Room{}, uniqueViolation())

	svc := room.NewService(st)
	creator := store.User{ID: uuid.New(), Role: store.RoleUser}

	_, customErr := svc.Create(context.Background(), creator, "general", false)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRoomNameTaken, customErr.Code)
}

func TestCreateRoomOwnerIsSoleParticipant(t *testing.T) {
	creator := store.User{ID: uuid.New(), Role: store.RoleUser}
	created := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      creator.ID,
		Participants: []uuid.UUID{creator.ID},
	}

	st := &store.MockStore{}
	st.On("CreateRoom", mock.Anything, store.CreateRoomParams{
		Name:    "general",
		OwnerID: creator.ID,
	}).Return(created, nil)

	svc := room.NewService(st)

	got, customErr := svc.Create(context.Background(), creator, "general", false)
	require.Nil(t, customErr)
	assert.Equal(t, creator.ID, got.OwnerID)
	assert.Equal(t, []uuid.UUID{creator.ID}, got.Participants)
	st.AssertExpectations(t)
}

func TestGetRoomNotFound(t *testing.T) {
	roomID := uuid.New()

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, roomID).Return(store.Room{}, store.ErrNotFound)

	svc := room.NewService(st)

	_, customErr := svc.Get(context.Background(), store.User{ID: uuid.New()}, roomID)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRoomNotFound, customErr.Code)
}

func TestEditRoomOwnerOnly(t *testing.T) {
	owner := uuid.New()
	stranger := store.User{ID: uuid.New(), Role: store.RoleAdmin}
	current := store.Room{ID: uuid.New(), Name: "general", OwnerID: owner}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)

	svc := room.NewService(st)

	newName := "renamed"
	_, customErr := svc.Edit(context.Background(), stranger, current.ID, room.EditInput{Name: &newName})
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNotRoomOwner, customErr.Code)
	st.AssertNotCalled(t, "UpdateRoom", mock.Anything, mock.Anything)
}

func TestEditRoomIgnoresEmptyName(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{ID: uuid.New(), Name: "general", OwnerID: actor.ID}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)
	st.On("UpdateRoom", mock.Anything, store.UpdateRoomParams{
		ID:        current.ID,
		Name:      "general",
		IsPrivate: true,
	}).Return(store.Room{ID: current.ID, Name: "general", OwnerID: actor.ID, IsPrivate: true}, nil)

	svc := room.NewService(st)

	empty := ""
	private := true
	updated, customErr := svc.Edit(context.Background(), actor, current.ID, room.EditInput{
		Name:      &empty,
		IsPrivate: &private,
	})
	require.Nil(t, customErr)
	assert.Equal(t, "general", updated.Name)
	assert.True(t, updated.IsPrivate)
	st.AssertExpectations(t)
}

func TestDeleteRoomPermissions(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		actor    store.User
		wantCode int
	}{
		{"non-owner user is rejected", store.User{ID: uuid.New(), Role: store.RoleUser}, errs.ErrForbidden},
		{"owner may delete", store.User{ID: owner, Role: store.RoleUser}, 0},
		{"admin may delete any room", store.User{ID: uuid.New(), Role: store.RoleAdmin}, 0},
		{"root may delete any room", store.User{ID: uuid.New(), Role: store.RoleRoot}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := store.Room{ID: uuid.New(), Name: "general", OwnerID: owner}

			st := &store.MockStore{}
			st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)
			st.On("DeleteRoom", mock.Anything, current.ID).Return(nil)

			svc := room.NewService(st)

			customErr := svc.Delete(context.Background(), tt.actor, current.ID)
			if tt.wantCode == 0 {
				require.Nil(t, customErr)
				st.AssertCalled(t, "DeleteRoom", mock.Anything, current.ID)
			} else {
				require.NotNil(t, customErr)
				assert.Equal(t, tt.wantCode, customErr.Code)
				st.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestJoinRoomAlreadyParticipant(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      uuid.New(),
		Participants: []uuid.UUID{actor.ID},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)

	svc := room.NewService(st)

	_, customErr := svc.Join(context.Background(), actor, current.ID)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrAlreadyParticipant, customErr.Code)
	st.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinRoomAddsParticipant(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	owner := uuid.New()
	current := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      owner,
		Participants: []uuid.UUID{owner},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)
	st.On("AddParticipant", mock.Anything, current.ID, actor.ID).Return(nil)

	svc := room.NewService(st)

	joined, customErr := svc.Join(context.Background(), actor, current.ID)
	require.Nil(t, customErr)
	assert.True(t, joined.HasParticipant(actor.ID))
	assert.True(t, joined.HasParticipant(owner))
	st.AssertExpectations(t)
}

func TestLeaveRoomNotParticipant(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{ID: uuid.New(), Name: "general", OwnerID: uuid.New()}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)

	svc := room.NewService(st)

	_, customErr := svc.Leave(context.Background(), actor, current.ID)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNotParticipant, customErr.Code)
}

func TestOwnerMayLeaveOwnRoom(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      actor.ID,
		Participants: []uuid.UUID{actor.ID},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)
	st.On("RemoveParticipant", mock.Anything, current.ID, actor.ID).Return(nil)

	svc := room.NewService(st)

	left, customErr := svc.Leave(context.Background(), actor, current.ID)
	require.Nil(t, customErr)
	assert.False(t, left.HasParticipant(actor.ID))
	assert.Equal(t, actor.ID, left.OwnerID)
	st.AssertExpectations(t)
}

func TestRemoveParticipantOwnerOnly(t *testing.T) {
	owner := uuid.New()
	target := uuid.New()
	stranger := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      owner,
		Participants: []uuid.UUID{owner, target},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)

	svc := room.NewService(st)

	customErr := svc.RemoveParticipant(context.Background(), stranger, current.ID, target)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNotRoomOwner, customErr.Code)
	st.AssertNotCalled(t, "RemoveParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveParticipantOwnerNotRemovable(t *testing.T) {
	actor := store.User{ID: uuid.New(), Role: store.RoleUser}
	current := store.Room{
		ID:           uuid.New(),
		Name:         "general",
		OwnerID:      actor.ID,
		Participants: []uuid.UUID{actor.ID},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, current.ID).Return(current, nil)

	svc := room.NewService(st)

	customErr := svc.RemoveParticipant(context.Background(), actor, current.ID, actor.ID)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrOwnerNotRemovable, customErr.Code)
}

// A removed participant keeps access to nothing but may rejoin later; the
// service treats a fresh join after removal like any other join.
func TestRemovedParticipantMayRejoin(t *testing.T) {
	owner := store.User{ID: uuid.New(), Role: store.RoleUser}
	member := store.User{ID: uuid.New(), Role: store.RoleUser}
	roomID := uuid.New()

	withMember := store.Room{
		ID:           roomID,
		Name:         "general",
		OwnerID:      owner.ID,
		Participants: []uuid.UUID{owner.ID, member.ID},
	}
	withoutMember := store.Room{
		ID:           roomID,
		Name:         "general",
		OwnerID:      owner.ID,
		Participants: []uuid.UUID{owner.ID},
	}

	st := &store.MockStore{}
	st.On("GetRoomByID", mock.Anything, roomID).Return(withMember, nil).Once()
	st.On("RemoveParticipant", mock.Anything, roomID, member.ID).Return(nil).Once()
	st.On("GetRoomByID", mock.Anything, roomID).Return(withoutMember, nil).Once()
	st.On("AddParticipant", mock.Anything, roomID, member.ID).Return(nil).Once()

	svc := room.NewService(st)

	customErr := svc.RemoveParticipant(context.Background(), owner, roomID, member.ID)
	require.Nil(t, customErr)

	rejoined, customErr := svc.Join(context.Background(), member, roomID)
	require.Nil(t, customErr)
	assert.True(t, rejoined.HasParticipant(member.ID))
	st.AssertExpectations(t)
}
