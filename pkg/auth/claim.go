package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// DefaultTTL is the validity window applied to tokens when no TTL is configured.
const DefaultTTL = time.Hour

// Claim holds the issuer and signing key used to authenticate publish requests
// against a single control endpoint.
type Claim struct {
	issuer string
	key    []byte
	ttl    time.Duration
}

// ClaimOption customizes a Claim at construction time.
type ClaimOption func(*Claim)

// WithTTL overrides the token validity window. Zero keeps DefaultTTL; negative
// values yield tokens that are already expired.
func WithTTL(ttl time.Duration) ClaimOption {
	return func(c *Claim) {
		if ttl != 0 {
			c.ttl = ttl
		}
	}
}

// NewClaim builds a claim for the given issuer. The key is required.
func NewClaim(issuer string, key []byte, opts ...ClaimOption) (*Claim, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: signing key is required", ErrConfiguration)
	}
	c := &Claim{
		issuer: issuer,
		key:    append([]byte(nil), key...),
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Claim) Issuer() string     { return c.issuer }
func (c *Claim) TTL() time.Duration { return c.ttl }

// Key returns a copy of the signing key.
func (c *Claim) Key() []byte { return append([]byte(nil), c.key...) }

// MaskedKey returns the signing key in a form safe for log output.
func (c *Claim) MaskedKey() string { return MaskKey(string(c.key)) }

// Sign produces a fresh HS256 token carrying the issuer (when set) and an
// expiry of now plus the claim TTL.
func (c *Claim) Sign(now time.Time) (string, error) {
	if c == nil || len(c.key) == 0 {
		return "", fmt.Errorf("%w: signing key is required", ErrConfiguration)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Issuer:    c.issuer,
		ExpiresAt: now.Add(c.ttl).Unix(),
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
