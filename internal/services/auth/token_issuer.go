package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TempTokenTTL is the fixed lifetime of the workspace-selection token,
// independent of the configured session TTL.
const TempTokenTTL = 5 * time.Minute

var (
	// ErrTokenExpired indicates the signature was fine but the token is
	// past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates a malformed token or a failed signature
	// check.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the JWT payload: the principal plus registered timestamps.
type Claims struct {
	Principal
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a process-wide HS256
// secret. The secret and default TTL are fixed at construction; the
// clock is injectable for tests.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the issuer's time source.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs a token for the principal with the default session TTL.
func (i *Issuer) Issue(p Principal) (string, time.Time, error) {
	return i.issue(p, i.ttl)
}

// IssueTemp signs a workspace-selection token with the fixed 5 minute
// TTL. Temp tokens are never recorded in the ledger.
func (i *Issuer) IssueTemp(p Principal) (string, time.Time, error) {
	return i.issue(p, TempTokenTTL)
}

func (i *Issuer) issue(p Principal, ttl time.Duration) (string, time.Time, error) {
	now := i.now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// Expiry and signature failures are reported distinctly; whether the
// token is still usable is the ledger's call, not ours.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
