package domain

import "time"

// Scope is the single declared purpose of a signed token. A token minted for
// one scope must never be accepted for another.
type Scope string

const (
	ScopeAccess            Scope = "access"
	ScopeRefresh           Scope = "refresh"
	ScopeEmailVerification Scope = "email_verification"
	ScopeResetPassword     Scope = "reset_password"
)

// UsedToken marks a single-use token as consumed. Rows are never updated or
// deleted; the table grows for the lifetime of the system.
type UsedToken struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
