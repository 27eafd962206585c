package auth

import "errors"

var (
	// ErrConfiguration is returned when a claim or validator cannot be built from
	// the supplied key material.
	ErrConfiguration = errors.New("auth: invalid configuration")
	// ErrUnexpectedMethod is reported when a token is not HMAC signed.
	ErrUnexpectedMethod = errors.New("auth: unexpected signing method")
)
