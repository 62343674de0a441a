package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID                   – primary key identifier of the user.
//  Username             – display name shown in the cabinet header.
//  Email                – unique email address used for login.
//  PasswordHash         – bcrypt hashed password.
//  Phone                – optional contact phone number.
//  NotificationsEnabled – whether the user opted into notifications.
//  Theme                – UI theme preference ("light" or "dark").
//  Role                 – access role (PASSENGER or ADMIN).
//  CreatedAt            – timestamp of registration.
type User struct {
    ID                   uint64    // users.id
    Username             string    // users.username
    Email                string    // users.email
    PasswordHash         string    // users.password_hash
    Phone                string    // users.phone
    NotificationsEnabled bool      // users.notifications_enabled
    Theme                string    // users.theme
    Role                 string    // users.role
    CreatedAt            time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
