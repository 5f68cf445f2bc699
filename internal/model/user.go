package model

import "time"

// User represents an application user record as stored in the
// `users` table. Profile fields (full name, username, branch) live on
// the same row; every read path wants both identity and profile, so
// there is no separate profile table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Username     – unique handle, 3-20 chars of [A-Za-z0-9_].
//  FullName     – display name.
//  Branch       – company branch the user belongs to (fixed list).
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or STAFF; ADMIN unlocks the administration area.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	FullName     string    // users.full_name
	Branch       string    // users.branch
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Branches lists the valid values for User.Branch.
var Branches = []string{"QM Builders", "Adamant Dev Corp.", "QG Dev Corp."}

// ValidBranch reports whether b is one of the known company branches.
func ValidBranch(b string) bool {
	for _, v := range Branches {
		if v == b {
			return true
		}
	}
	return false
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries expiry and revocation
// metadata. The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
