package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds, surfaced verbatim as denial causes.
const (
	KindExpired          = "TokenExpired"
	KindMalformed        = "TokenMalformed"
	KindSignatureInvalid = "SignatureInvalid"
	KindInvalid          = "TokenInvalid"
)

type Config struct {
	// Secret is the shared HMAC signing key. It is passed in explicitly so
	// the codec carries no hidden process-wide state.
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec signs and verifies the two bearer token kinds. It performs no I/O;
// verification is deterministic given the secret and the clock.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Codec{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// Mint signs the claim set with an expiry at now + lifetime.
func (c *Codec) Mint(claims Claims, lifetime time.Duration) (string, error) {
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// MintAccess signs an access token with the configured 1-hour lifetime.
func (c *Codec) MintAccess(claims Claims) (string, error) {
	return c.Mint(claims, c.accessTTL)
}

// MintRefresh signs a refresh token with the configured 7-day lifetime.
func (c *Codec) MintRefresh(claims Claims) (string, error) {
	return c.Mint(claims, c.refreshTTL)
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Verify checks the signature and expiry of a token and returns its claims.
// An expired token fails with an error recognizable via IsExpired; every
// other failure classifies through Kind.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	t, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !t.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}

// IsExpired reports whether a verification failure was caused by token
// expiry, the only recoverable failure kind.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

// Kind maps a verification failure to its stable kind string. Callers
// surface this string verbatim as a denial cause.
func Kind(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return KindExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return KindMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return KindSignatureInvalid
	default:
		return KindInvalid
	}
}
