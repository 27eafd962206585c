package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signWith(t *testing.T, issuer string, ttl time.Duration) string {
	t.Helper()
	claim, err := NewClaim(issuer, []byte("key=="), WithTTL(ttl))
	if err != nil {
		t.Fatalf("new claim: %v", err)
	}
	token, err := claim.Sign(time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign claims: %v", err)
	}
	return token
}

func TestValidateSig(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		key    string
		issuer string
		want   bool
	}{
		{name: "valid signature", token: signWith(t, "", time.Hour), key: "key==", want: true},
		{name: "expired", token: signWith(t, "", -time.Hour), key: "key==", want: false},
		{name: "wrong key", token: signWith(t, "", time.Hour), key: "key===", want: false},
		{name: "matching issuer", token: signWith(t, "foo", time.Hour), key: "key==", issuer: "foo", want: true},
		{name: "missing issuer", token: signWith(t, "", time.Hour), key: "key==", issuer: "foo", want: false},
		{name: "mismatched issuer", token: signWith(t, "bar", time.Hour), key: "key==", issuer: "foo", want: false},
		{name: "malformed token", token: "not.a.token", key: "key==", want: false},
		{
			name:   "epoch expiry",
			token:  signClaims(t, jwt.SigningMethodHS256, []byte("key=="), jwt.MapClaims{"iss": "foo", "exp": 0}),
			key:    "key==",
			issuer: "foo",
			want:   false,
		},
		{
			name:  "non numeric expiry",
			token: signClaims(t, jwt.SigningMethodHS256, []byte("key=="), jwt.MapClaims{"exp": "tomorrow"}),
			key:   "key==",
			want:  false,
		},
		{
			name:  "no expiry",
			token: signClaims(t, jwt.SigningMethodHS256, []byte("key=="), jwt.MapClaims{"iss": "foo"}),
			key:   "key==",
			want:  true,
		},
		{
			name:  "unsigned token",
			token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
			key:   "key==",
			want:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateSig(tc.token, []byte(tc.key), tc.issuer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestValidateSigRejectsEmptyKey(t *testing.T) {
	ok, err := ValidateSig(signWith(t, "", time.Hour), nil, "")
	if ok {
		t.Fatalf("expected validation to fail")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidatorUsesClock(t *testing.T) {
	claim, _ := NewClaim("foo", []byte("key=="))
	issuedAt := time.Unix(1_700_000_000, 0)
	token, err := claim.Sign(issuedAt)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	within, _ := NewValidator([]byte("key=="), WithClock(func() time.Time { return issuedAt.Add(30 * time.Minute) }))
	if !within.Validate(token) {
		t.Fatalf("expected token valid inside the window")
	}
	after, _ := NewValidator([]byte("key=="), WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) }))
	if after.Validate(token) {
		t.Fatalf("expected token invalid after the window")
	}
}

func TestVerifyComponents(t *testing.T) {
	if vc := NewVerifyComponents("", ""); vc != nil {
		t.Fatalf("expected nil components, got %+v", vc)
	}

	vc := NewVerifyComponents("foo", "key==")
	if vc.Issuer != "foo" || string(vc.Key) != "key==" {
		t.Fatalf("unexpected components %+v", vc)
	}
	ok, err := vc.Validate(signWith(t, "foo", time.Hour))
	if err != nil || !ok {
		t.Fatalf("expected token to validate, ok=%v err=%v", ok, err)
	}

	issuerOnly := NewVerifyComponents("foo", "")
	if _, err := issuerOnly.Validate("token"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration without key, got %v", err)
	}
}
