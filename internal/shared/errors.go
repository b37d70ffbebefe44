package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrEmailInUse         = fmt.Errorf("email already in use")
	ErrWeakPassword       = fmt.Errorf("password too weak")
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrTokenExpired       = fmt.Errorf("access token expired")
	ErrRefreshFailed      = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken     = fmt.Errorf("no refresh token available")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrGameNotFound       = fmt.Errorf("game not found")
	ErrUploadFailed       = fmt.Errorf("upload failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
