package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccountClaims is the claim set carried by activation and password reset
// tokens. The subject is the account id; Authenticated is always false
// because these tokens prove control of an email address, not a completed
// sign-in.
type AccountClaims struct {
	jwt.RegisteredClaims
	Authenticated bool       `json:"authenticated"`
	Scope         TokenScope `json:"scope,omitempty"`
}

// AccountID returns the subject claim
func (c *AccountClaims) AccountID() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *AccountClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AccountClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
