package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roomColumns = `id, name, is_private, owner_id, participants, created_at, updated_at`

// scanRoom reads one room row in roomColumns order.
func scanRoom(row pgx.Row) (Room, error) {
	var r Room
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.IsPrivate,
		&r.OwnerID,
		&r.Participants,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return Room{}, mapNoRows(err)
	}
	return r, nil
}

// CreateRoom inserts a new room with the owner as the sole participant.
// A duplicate name surfaces as a unique violation.
func (s *PgStore) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, is_private, owner_id, participants)
		VALUES ($1, $2, $3, ARRAY[$3]::uuid[])
		RETURNING `+roomColumns,
		params.Name, params.IsPrivate, params.OwnerID,
	)
	return scanRoom(row)
}

// GetRoomByID fetches a room by its ID.
func (s *PgStore) GetRoomByID(ctx context.Context, id uuid.UUID) (Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	return scanRoom(row)
}

// ListRoomsByParticipant returns every room the account participates in.
func (s *PgStore) ListRoomsByParticipant(ctx context.Context, userID uuid.UUID) ([]Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE $1 = ANY(participants) ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateRoom replaces name and privacy, returning the updated record.
func (s *PgStore) UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE rooms SET name = $2, is_private = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+roomColumns,
		params.ID, params.Name, params.IsPrivate,
	)
	return scanRoom(row)
}

// DeleteRoom removes a room.
func (s *PgStore) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddParticipant appends the account to the participant set in a single
// statement; the guard against duplicates runs before this call.
func (s *PgStore) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rooms SET participants = array_append(participants, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(participants))`,
		roomID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveParticipant removes the account from the participant set.
func (s *PgStore) RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rooms SET participants = array_remove(participants, $2), updated_at = now()
		WHERE id = $1`,
		roomID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMessage appends a chat message record.
func (s *PgStore) CreateMessage(ctx context.Context, params CreateMessageParams) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (sender_id, room_id, content) VALUES ($1, $2, $3)`,
		params.SenderID, params.RoomID, params.Content,
	)
	return err
}

// CreateAuditLog appends a moderation audit record.
func (s *PgStore) CreateAuditLog(ctx context.Context, params CreateAuditLogParams) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_logs (user_id, action, ip) VALUES ($1, $2, $3)`,
		params.UserID, params.Action, params.IP,
	)
	return err
}
