package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, is_banned, ban_reason, ban_until, avatar_key, created_at`

// scanUser reads one user row in userColumns order.
func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsBanned,
		&u.BanReason,
		&u.BanUntil,
		&u.AvatarKey,
		&u.CreatedAt,
	)
	if err != nil {
		return User{}, mapNoRows(err)
	}
	return u, nil
}

// CreateUser inserts a new account. A duplicate email surfaces as a unique
// violation the caller maps with IsUniqueViolation.
func (s *PgStore) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		params.Username, params.Email, params.PasswordHash, params.Role,
	)
	return scanUser(row)
}

// GetUserByID fetches an account by its ID.
func (s *PgStore) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail fetches an account by its email address.
func (s *PgStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// EmailInUse reports whether another account already uses the email.
func (s *PgStore) EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, excludeID,
	).Scan(&exists)
	return exists, err
}

// UsernameInUse reports whether another account already uses the username.
func (s *PgStore) UsernameInUse(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, excludeID,
	).Scan(&exists)
	return exists, err
}

// HasRoot reports whether a root account exists. Used at bootstrap; root
// uniqueness is enforced there, not by a schema constraint.
func (s *PgStore) HasRoot(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'root')`,
	).Scan(&exists)
	return exists, err
}

// ListUsers returns accounts matching the filter. The root account is
// excluded unconditionally.
func (s *PgStore) ListUsers(ctx context.Context, params ListUsersParams) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role <> 'root'`
	args := []any{}
	argN := 1

	if len(params.Roles) > 0 {
		roles := make([]string, 0, len(params.Roles))
		for _, r := range params.Roles {
			roles = append(roles, string(r))
		}
		query += fmt.Sprintf(` AND role = ANY($%d)`, argN)
		args = append(args, roles)
		argN++
	}

	if params.Banned != nil {
		query += fmt.Sprintf(` AND is_banned = $%d`, argN)
		args = append(args, *params.Banned)
		argN++
	}

	query += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes an account's role.
func (s *PgStore) UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserBan sets or clears the ban flags in a single statement.
func (s *PgStore) SetUserBan(ctx context.Context, id uuid.UUID, banned bool, reason string, until *time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET is_banned = $2, ban_reason = $3, ban_until = $4 WHERE id = $1`,
		id, banned, reason, until,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserProfile updates username and email, returning the updated record.
func (s *PgStore) UpdateUserProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET username = $2, email = $3
		WHERE id = $1
		RETURNING `+userColumns,
		params.ID, params.Username, params.Email,
	)
	return scanUser(row)
}

// UpdateUserPassword replaces the stored password hash.
func (s *PgStore) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserAvatar replaces the stored avatar object key.
func (s *PgStore) UpdateUserAvatar(ctx context.Context, id uuid.UUID, avatarKey string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET avatar_key = $2 WHERE id = $1`, id, avatarKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
