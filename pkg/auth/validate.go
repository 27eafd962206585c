package auth

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt"
)

// Validator checks HMAC signed tokens against a key and an optional issuer.
type Validator struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// ValidatorOption customizes a Validator.
type ValidatorOption func(*Validator)

// WithIssuer requires the token iss claim to match issuer.
func WithIssuer(issuer string) ValidatorOption {
	return func(v *Validator) {
		v.issuer = issuer
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator builds a validator. An empty key is a configuration error since
// no token could ever be checked against it.
func NewValidator(key []byte, opts ...ValidatorOption) (*Validator, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: verification key is required", ErrConfiguration)
	}
	v := &Validator{
		key: append([]byte(nil), key...),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v, nil
}

// Validate reports whether token carries a valid signature, is not expired and
// matches the expected issuer. Rejections are reported as false, never as errors.
func (v *Validator) Validate(token string) bool {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{SkipClaimsValidation: true}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedMethod
		}
		return v.key, nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		return false
	}

	now := v.now().Unix()
	if raw, ok := claims["exp"]; ok {
		exp, numeric := numericClaim(raw)
		if !numeric || exp <= now {
			return false
		}
	}
	if !claims.VerifyNotBefore(now, false) {
		return false
	}
	if v.issuer != "" {
		iss, _ := claims["iss"].(string)
		if iss != v.issuer {
			return false
		}
	}
	return true
}

// numericClaim reads a NumericDate claim. Zero is a real timestamp here, not
// an absent value.
func numericClaim(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// ValidateSig checks token against key and, when expectedIssuer is not empty,
// the iss claim. It only returns an error when the key itself is unusable.
func ValidateSig(token string, key []byte, expectedIssuer string) (bool, error) {
	v, err := NewValidator(key, WithIssuer(expectedIssuer))
	if err != nil {
		return false, err
	}
	return v.Validate(token), nil
}
