/*
Package room implements the room membership manager: room lifecycle and
participant set mutations with ownership and role based permission rules.

Every operation runs its gates in order before touching the store, and every
store mutation is a single-statement update, so a failed gate leaves no
partial change behind.
*/
package room

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

// Service coordinates room lifecycle and membership operations.
type Service struct {
	store  store.Store
	logger zerolog.Logger
}

// NewService constructs a room Service on top of the given store.
func NewService(st store.Store) *Service {
	return &Service{
		store:  st,
		logger: logx.Logger().With().Str("component", "room").Logger(),
	}
}

// EditInput carries the optional fields of an edit operation. Nil fields are
// left untouched; a provided but empty name is ignored rather than applied.
type EditInput struct {
	Name      *string
	IsPrivate *bool
}

// Create creates a new room owned by the creator, who becomes the sole
// initial participant. Room names are globally unique.
func (s *Service) Create(ctx context.Context, creator store.User, name string, isPrivate bool) (store.Room, *errs.CustomError) {
	if strings.TrimSpace(name) == "" {
		return store.Room{}, errs.NewError(errs.ErrRoomNameRequired)
	}

	created, err := s.store.CreateRoom(ctx, store.CreateRoomParams{
		Name:      name,
		IsPrivate: isPrivate,
		OwnerID:   creator.ID,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.Room{}, errs.NewError(errs.ErrRoomNameTaken)
		}
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to create room.")
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	s.logger.Info().
		Str("room_id", created.ID.String()).
		Str("owner_id", creator.ID.String()).
		Msg("Room created.")
	return created, nil
}

// List returns the rooms the identity participates in.
func (s *Service) List(ctx context.Context, identity store.User) ([]store.Room, *errs.CustomError) {
	rooms, err := s.store.ListRoomsByParticipant(ctx, identity.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list rooms.")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return rooms, nil
}

// Get fetches a single room by ID. Reads are not restricted to participants.
func (s *Service) Get(ctx context.Context, identity store.User, roomID uuid.UUID) (store.Room, *errs.CustomError) {
	return s.fetchRoom(ctx, roomID)
}

// Edit applies a partial update to a room. Only the owner may edit.
func (s *Service) Edit(ctx context.Context, identity store.User, roomID uuid.UUID, input EditInput) (store.Room, *errs.CustomError) {
	current, customErr := s.fetchRoom(ctx, roomID)
	if customErr != nil {
		return store.Room{}, customErr
	}

	if current.OwnerID != identity.ID {
		return store.Room{}, errs.NewError(errs.ErrNotRoomOwner)
	}

	name := current.Name
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		name = *input.Name
	}

	isPrivate := current.IsPrivate
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}

	updated, err := s.store.UpdateRoom(ctx, store.UpdateRoomParams{
		ID:        roomID,
		Name:      name,
		IsPrivate: isPrivate,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.Room{}, errs.NewError(errs.ErrRoomNameTaken)
		}
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to update room.")
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	return updated, nil
}

// Delete removes a room. The owner may delete their own room; admins and
// root may delete any room.
func (s *Service) Delete(ctx context.Context, identity store.User, roomID uuid.UUID) *errs.CustomError {
	current, customErr := s.fetchRoom(ctx, roomID)
	if customErr != nil {
		return customErr
	}

	if identity.Role == store.RoleUser && current.OwnerID != identity.ID {
		return errs.NewError(errs.ErrForbidden)
	}

	if err := s.store.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to delete room.")
		return errs.NewError(errs.ErrUnknown)
	}

	s.logger.Info().
		Str("room_id", roomID.String()).
		Str("actor_id", identity.ID.String()).
		Msg("Room deleted.")
	return nil
}

// Join appends the identity to the room's participant set.
func (s *Service) Join(ctx context.Context, identity store.User, roomID uuid.UUID) (store.Room, *errs.CustomError) {
	current, customErr := s.fetchRoom(ctx, roomID)
	if customErr != nil {
		return store.Room{}, customErr
	}

	if current.HasParticipant(identity.ID) {
		return store.Room{}, errs.NewError(errs.ErrAlreadyParticipant)
	}

	if err := s.store.AddParticipant(ctx, roomID, identity.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to add participant.")
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	current.Participants = append(current.Participants, identity.ID)
	return current, nil
}

// Leave removes the identity from the room's participant set. An owner may
// leave their own room; the room then persists without an owner-participant.
func (s *Service) Leave(ctx context.Context, identity store.User, roomID uuid.UUID) (store.Room, *errs.CustomError) {
	current, customErr := s.fetchRoom(ctx, roomID)
	if customErr != nil {
		return store.Room{}, customErr
	}

	if !current.HasParticipant(identity.ID) {
		return store.Room{}, errs.NewError(errs.ErrNotParticipant)
	}

	if err := s.store.RemoveParticipant(ctx, roomID, identity.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to remove participant.")
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	current.Participants = withoutParticipant(current.Participants, identity.ID)
	return current, nil
}

// RemoveParticipant removes a target account from a room. Only the room
// owner may do this, and the owner cannot be removed this way.
func (s *Service) RemoveParticipant(ctx context.Context, identity store.User, roomID, targetID uuid.UUID) *errs.CustomError {
	current, customErr := s.fetchRoom(ctx, roomID)
	if customErr != nil {
		return customErr
	}

	if current.OwnerID != identity.ID {
		return errs.NewError(errs.ErrNotRoomOwner)
	}

	if current.OwnerID == targetID {
		return errs.NewError(errs.ErrOwnerNotRemovable)
	}

	if err := s.store.RemoveParticipant(ctx, roomID, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to remove participant.")
		return errs.NewError(errs.ErrUnknown)
	}

	return nil
}

// fetchRoom loads a room and maps the missing case onto the error taxonomy.
func (s *Service) fetchRoom(ctx context.Context, roomID uuid.UUID) (store.Room, *errs.CustomError) {
	current, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}
		s.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("Failed to fetch room.")
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}
	return current, nil
}

func withoutParticipant(participants []uuid.UUID, userID uuid.UUID) []uuid.UUID {
	remaining := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		if p != userID {
			remaining = append(remaining, p)
		}
	}
	return remaining
}
