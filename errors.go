package accounts

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when a credential to hash is blank
var ErrNoEmptyString = errors.New("password should not be an empty string")

// ErrMismatchedHashAndPassword is returned when a credential check fails
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// ErrAccountNotFound is the error we return for non found accounts
var ErrAccountNotFound = errors.New("account not found")

// ErrTokenInvalid covers malformed input, signature mismatch, wrong
// issuer/audience/scope, and missing expiration.
var ErrTokenInvalid = goerrors.New("token is invalid", goerrors.CategoryAuth).
	WithTextCode("TOKEN_INVALID").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when an otherwise valid token is past its expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// IsTokenInvalidError will check for invalid tokens, expired included
func IsTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == ErrTokenInvalid.TextCode ||
			rich.TextCode == ErrTokenExpired.TextCode
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}
