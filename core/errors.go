package core

import "errors"

// Authentication errors
var (
	ErrUnauthenticated = errors.New("not authenticated")         // 401 Unauthorized
	ErrInvalidToken    = errors.New("invalid or expired token")  // 401 Unauthorized
	ErrAccountNotFound = errors.New("account not found")         // 401 on resolve, 404 elsewhere
)

// Login errors
var (
	ErrProviderRejected    = errors.New("provider rejected the access token")      // 400
	ErrEmailRequired       = errors.New("email is required for registration")      // 400
	ErrAccountInactive     = errors.New("account is inactive")                     // 400
	ErrCabinetAccessDenied = errors.New("cabinet access is not enabled")           // 403
)

// Validation errors (client input)
var (
	ErrProviderTokenRequired = errors.New("provider access token is required") // 400
	ErrInvalidEmail          = errors.New("invalid email format")              // 400
	ErrUnknownProvider       = errors.New("unknown oauth provider")            // 400
)

// Storage errors
var (
	// ErrAccountExists signals a unique-key conflict on insert. The linker
	// treats it as "someone else created the row first" and retries as an
	// update, so it normally never reaches a client.
	ErrAccountExists = errors.New("account already exists")
)

// Config errors (server-side configuration)
var (
	ErrDirectoryRequired = errors.New("directory adapter is required") // 500
	ErrSecretRequired    = errors.New("secret is required")            // 500
	ErrSecretTooShort    = errors.New("secret too short")              // 500
)
