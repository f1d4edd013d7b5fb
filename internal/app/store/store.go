package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// CreateUserParams are the inputs for CreateUser.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// ListUsersParams filter the ListUsers result. A nil Banned means no ban
// filter; an empty Roles slice means any role. The root role is always
// excluded regardless of the filter.
type ListUsersParams struct {
	Roles  []Role
	Banned *bool
}

// UpdateProfileParams are the inputs for UpdateUserProfile.
type UpdateProfileParams struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// CreateRoomParams are the inputs for CreateRoom. The owner becomes the sole
// initial participant.
type CreateRoomParams struct {
	Name      string
	IsPrivate bool
	OwnerID   uuid.UUID
}

// UpdateRoomParams are the inputs for UpdateRoom.
type UpdateRoomParams struct {
	ID        uuid.UUID
	Name      string
	IsPrivate bool
}

// CreateMessageParams are the inputs for CreateMessage.
type CreateMessageParams struct {
	SenderID uuid.UUID
	RoomID   uuid.UUID
	Content  string
}

// CreateAuditLogParams are the inputs for CreateAuditLog.
type CreateAuditLogParams struct {
	UserID uuid.UUID
	Action string
	IP     string
}

// Store is the persistence interface consumed by the application components.
// Every mutation is a single-statement update so a failed precondition gate
// never leaves a partial change visible.
type Store interface {
	// Users
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	UsernameInUse(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	HasRoot(ctx context.Context) (bool, error)
	ListUsers(ctx context.Context, params ListUsersParams) ([]User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) error
	SetUserBan(ctx context.Context, id uuid.UUID, banned bool, reason string, until *time.Time) error
	UpdateUserProfile(ctx context.Context, params UpdateProfileParams) (User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUserAvatar(ctx context.Context, id uuid.UUID, avatarKey string) error

	// Rooms
	CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error)
	GetRoomByID(ctx context.Context, id uuid.UUID) (Room, error)
	ListRoomsByParticipant(ctx context.Context, userID uuid.UUID) ([]Room, error)
	UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error

	// Messages and audit
	CreateMessage(ctx context.Context, params CreateMessageParams) error
	CreateAuditLog(ctx context.Context, params CreateAuditLogParams) error

	Ping(ctx context.Context) error
}

// PgStore is the PostgreSQL-backed Store implementation.
type PgStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

// NewPgStore initializes a PostgreSQL connection pool, runs pending
// migrations, and returns the Store implementation on top of it.
func NewPgStore(dsn string) (*PgStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &PgStore{pool: pool}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Info("Database migrations applied successfully.")
	return nil
}

// Close releases the underlying connection pool.
func (s *PgStore) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
