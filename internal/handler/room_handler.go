package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/room"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/req"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

// CreateRoomInput is the request body for room creation.
type CreateRoomInput struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

// EditRoomInput is the request body for room edits. Omitted fields keep
// their current value.
type EditRoomInput struct {
	Name      *string `json:"name,omitempty"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

// RemoveParticipantInput is the request body for removing a participant.
type RemoveParticipantInput struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// RoomData wraps a single room response payload.
type RoomData struct {
	Room store.Room `json:"room"`
}

// RoomListData wraps the room listing response payload.
type RoomListData struct {
	Rooms []store.Room `json:"rooms"`
}

// targetRoomID parses the roomId URL parameter.
func targetRoomID(r *http.Request) (uuid.UUID, *errs.CustomError) {
	id, err := uuid.Parse(chi.URLParam(r, "roomId"))
	if err != nil {
		return uuid.Nil, errs.NewError(errs.ErrInvalidParams)
	}
	return id, nil
}

// HandleCreateRoom creates a room owned by the caller.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		created, customErr := deps.Rooms.Create(r.Context(), identity, input.Name, input.IsPrivate)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomData{Room: created})
	}
}

// HandleListRooms returns the rooms the caller participates in.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		rooms, customErr := deps.Rooms.List(r.Context(), identity)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomListData{Rooms: rooms})
	}
}

// HandleGetRoom returns a single room by ID.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID, customErr := targetRoomID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		found, customErr := deps.Rooms.Get(r.Context(), identity, roomID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomData{Room: found})
	}
}

// HandleEditRoom updates a room's name or visibility. Owner only.
func HandleEditRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID, customErr := targetRoomID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input EditRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, customErr := deps.Rooms.Edit(r.Context(), identity, roomID, room.EditInput{
			Name:      input.Name,
			IsPrivate: input.IsPrivate,
		})
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomData{Room: updated})
	}
}

// HandleDeleteRoom deletes a room. The owner can delete their own room;
// admins and root can delete any room.
func HandleDeleteRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID, customErr := targetRoomID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Rooms.Delete(r.Context(), identity, roomID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleJoinRoom adds the caller to a room's participants.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID, customErr := targetRoomID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		joined, customErr := deps.Rooms.Join(r.Context(), identity, roomID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomData{Room: joined})
	}
}

// HandleLeaveRoom removes the caller from a room's participants.
func HandleLeaveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID, customErr := targetRoomID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		left, customErr := deps.Rooms.Leave(r.Context(), identity, roomID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, RoomData{Room: left})
	}
}

// HandleRemoveParticipant removes another participant from a room. Owner only.
func HandleRemoveParticipant(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input RemoveParticipantInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID, err := uuid.Parse(input.RoomID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		targetID, err := uuid.Parse(input.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Rooms.RemoveParticipant(r.Context(), identity, roomID, targetID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
