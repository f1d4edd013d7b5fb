/*
Package store owns persistence for accounts, rooms, messages and the audit
log. It exposes a Store interface so components can be tested against a mock,
with the production implementation backed by PostgreSQL via pgx.
*/
package store

import (
	"time"

	"github.com/google/uuid"
)

// Role is the moderation role of an account. Roles are ordered
// root > admin > user for display purposes, but moderation rules are
// expressed as explicit pairwise checks, not numeric comparison.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleRoot  Role = "root"
)

// ParseRole converts a raw string into a Role. The second return value is
// false for anything that is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleRoot:
		return Role(s), true
	default:
		return "", false
	}
}

// User is an account record. Exactly one root account exists at steady
// state, seeded at process bootstrap.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsBanned     bool       `json:"isBanned"`
	BanReason    string     `json:"banReason,omitempty"`
	BanUntil     *time.Time `json:"banUntil,omitempty"`
	AvatarKey    string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Room is a named container of participant accounts. The owner is a
// participant from creation; leaving their own room is allowed and leaves
// the room ownerless.
type Room struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	IsPrivate    bool        `json:"isPrivate"`
	OwnerID      uuid.UUID   `json:"ownerId"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// HasParticipant reports whether the given account is in the participant set.
func (r Room) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Message is a chat message record. Persistence is best-effort; delivery to
// live subscribers never waits on it.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"senderId"`
	RoomID    uuid.UUID `json:"roomId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditLog records a moderation action and the IP it originated from.
type AuditLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}
