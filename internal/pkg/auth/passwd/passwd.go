/*
Package passwd wraps the one-way password hashing collaborator (bcrypt) and
owns the password policy: length limits and the work factor per role.

Privileged accounts (admin, root) get a higher bcrypt cost than plain user
accounts. Registration always creates plain users, so new registrations and
user-role password changes hash at the baseline cost; root bootstrap and
privileged password changes hash at the elevated cost.
*/
package passwd

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinLength is the minimum accepted password length in runes.
	MinLength = 8

	// MaxLength is the maximum accepted password length in runes. bcrypt
	// truncates input past 72 bytes, so anything longer is rejected upfront.
	MaxLength = 64

	// UserCost is the bcrypt work factor for user-role accounts.
	UserCost = 10

	// PrivilegedCost is the bcrypt work factor for admin and root accounts.
	PrivilegedCost = 12
)

// CostForRole returns the bcrypt work factor to use for the given role.
func CostForRole(role string) int {
	if role == "admin" || role == "root" {
		return PrivilegedCost
	}
	return UserCost
}

// ValidLength reports whether the plaintext password satisfies the length policy.
func ValidLength(plaintext string) bool {
	n := utf8.RuneCountInString(plaintext)
	return n >= MinLength && n <= MaxLength
}

// Hash returns the bcrypt hash of the plaintext using the work factor for role.
func Hash(plaintext, role string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), CostForRole(role))
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored hash.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
