package apimodel

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the client pipeline and the session controller.
// Wire failures are *CodeError values that match these sentinels with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingInput       = errors.New("missing input")
	ErrUnauthorized       = errors.New("not logged in")
	ErrTokenInvalid       = errors.New("access token invalid")
	ErrTokenExpired       = errors.New("access token expired")
	ErrRefreshFailed      = errors.New("refresh token invalid or expired")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrTransport          = errors.New("network or transport failure")
)

// CodeError is an application-level failure reported by the backend envelope.
type CodeError struct {
	Code Code
	Msg  string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Msg)
}

// Is maps wire codes onto the taxonomy sentinels.
func (e *CodeError) Is(target error) bool {
	switch e.Code {
	case CodeUnauthorized:
		return target == ErrUnauthorized
	case CodeTokenInvalid:
		return target == ErrTokenInvalid
	case CodeTokenExpired:
		return target == ErrTokenExpired
	case CodeInvalidCredentials:
		return target == ErrInvalidCredentials
	case CodeRefreshTokenInvalid, CodeRefreshTokenExpired:
		return target == ErrRefreshFailed
	case CodeTooManyAttempts:
		return target == ErrTooManyAttempts
	case CodeMissingCredentials, CodeMissingRefreshToken:
		return target == ErrMissingInput
	}
	return false
}

// CodeOf extracts the wire code from err, or CodeOK when err carries none.
func CodeOf(err error) Code {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeOK
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
