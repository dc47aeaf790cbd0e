package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenValidity is the expiry window when configuration does not set one
const DefaultTokenValidity = 12 * time.Hour

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	validity   time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceOption customizes token service construction
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests)
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the logger used by the token service
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. The signing secret,
// issuer, and audience are captured once here; a missing secret is a fatal
// configuration error surfaced at startup rather than at call time.
func NewTokenService(cfg Config, opts ...TokenServiceOption) (*TokenServiceImpl, error) {
	secret := cfg.GetTokenSecret()
	if secret == "" {
		return nil, errors.New("token secret is required", errors.CategoryValidation).
			WithTextCode("TOKEN_SECRET_MISSING")
	}

	validity := DefaultTokenValidity
	if hours := cfg.GetTokenExpiration(); hours > 0 {
		validity = time.Duration(hours) * time.Hour
	}

	ts := &TokenServiceImpl{
		signingKey: []byte(secret),
		validity:   validity,
		issuer:     cfg.GetTokenIssuer(),
		audience:   cfg.GetTokenAudience(),
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// Issue mints a signed token bound to the account id for the given scope
func (ts *TokenServiceImpl) Issue(accountID string, scope TokenScope) (string, error) {
	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   accountID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.validity)),
		},
		Authenticated: false,
		Scope:         scope,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary account claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *AccountClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Validate parses and verifies a token string and returns the account id it
// is bound to. A token signed with the right key but carrying a different
// issuer, audience, or scope is rejected, not partially trusted.
func (ts *TokenServiceImpl) Validate(raw string, scope TokenScope) (string, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &AccountClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode)
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return "", ErrTokenInvalid
	}

	if claims.Scope != scope {
		return "", errors.New("token scope mismatch", ErrTokenInvalid.Category).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithMetadata(map[string]any{
				"expected": scope,
				"actual":   claims.Scope,
			})
	}

	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
