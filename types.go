package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds account workflow options. It is consumed as already loaded
// state; this package never parses configuration sources itself.
type Config interface {
	GetTokenSecret() string
	GetTokenIssuer() string
	GetTokenAudience() []string
	// GetTokenExpiration is the token validity window in hours.
	GetTokenExpiration() int
	GetSenderAddress() string
	GetActivationURL() string
	GetPasswordResetURL() string
}

// Hasher transforms a plaintext credential into its stored form and checks
// a plaintext candidate against a stored digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) error
}

// TokenScope binds an issued token to the single flow allowed to consume it.
type TokenScope = string

const (
	// ScopeActivation marks tokens minted for account activation links.
	ScopeActivation TokenScope = "activation"
	// ScopePasswordReset marks tokens minted for password reset links.
	ScopePasswordReset TokenScope = "password_reset"
)

// TokenIssuer mints signed, time limited tokens bound to an account id.
type TokenIssuer interface {
	Issue(accountID string, scope TokenScope) (string, error)
}

// TokenValidator verifies tokens and extracts the account id without tying
// callers to a specific signing implementation. Any malformed, mis-signed,
// mis-scoped, or expired token yields ErrTokenInvalid based errors.
type TokenValidator interface {
	Validate(raw string, scope TokenScope) (string, error)
}

// TokenService issues and validates account tokens against one shared key.
type TokenService interface {
	TokenIssuer
	TokenValidator
}

// MailClient delivers outbound messages. A nil return means the message was
// accepted for delivery; transport mechanics live behind this contract.
type MailClient interface {
	Send(ctx context.Context, msg Message) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
