package auth

import "errors"

var (
	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidRefreshToken covers every refresh failure: bad signature,
	// expiry, wrong token type, and absence from the whitelist.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
)
