package model

import "time"

// User represents an application account as stored in the `users` table.
// Requesters (role USER) book assistance for themselves; agents (role
// AGENT) accept and carry out missions.  The UID is the stable external
// identifier issued by the identity provider and is what reservations
// reference as requester identity.
//
// Fields:
//  ID           – primary key identifier of the user.
//  UID          – stable external identity (opaque, unique).
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name, echoed into reservations.
//  LastName     – family name, echoed into reservations.
//  Role         – USER or AGENT.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    UID          string    // users.uid
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Identity is the slice of a user profile the booking builder needs: a
// stable unique id plus display names.  It is deliberately small so the
// builder can be fed from a JWT, a session object or a test fixture alike.
type Identity struct {
    UID       string `json:"uid"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
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
