package storozh

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ddanshin/storozh/core"
	"github.com/ddanshin/storozh/pkg/crypto"
	"github.com/ddanshin/storozh/providers"
	"github.com/ddanshin/storozh/services"
)

// interfaces
type (
	Directory = core.Directory
	Provider  = core.Provider

	AuthHandler = core.AuthHandler
	HTTPAdapter = core.HTTPAdapter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Auth   = services.Auth
	Policy = core.Policy

	Account       = core.Account
	AccountDraft  = core.AccountDraft
	AccountUpdate = core.AccountUpdate
	PublicAccount = core.PublicAccount
	Principal     = core.Principal

	ProviderPayload  = core.ProviderPayload
	ProviderIdentity = core.ProviderIdentity
	LoginResult      = core.LoginResult
	StatusResult     = core.StatusResult
)

const (
	defaultBasePath = "/api/auth"
	minSecretLen    = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2 = crypto.NewArgon2
	NewGitHub = providers.NewGitHub
	NewYandex = providers.NewYandex
)

var (
	ErrUnauthenticated = core.ErrUnauthenticated
	ErrInvalidToken    = core.ErrInvalidToken
	ErrAccountNotFound = core.ErrAccountNotFound
)

var (
	ErrProviderRejected    = core.ErrProviderRejected
	ErrEmailRequired       = core.ErrEmailRequired
	ErrAccountInactive     = core.ErrAccountInactive
	ErrCabinetAccessDenied = core.ErrCabinetAccessDenied
)

var (
	ErrProviderTokenRequired = core.ErrProviderTokenRequired
	ErrInvalidEmail          = core.ErrInvalidEmail
	ErrUnknownProvider       = core.ErrUnknownProvider
)

var (
	ErrDirectoryRequired = core.ErrDirectoryRequired
	ErrSecretRequired    = core.ErrSecretRequired
	ErrSecretTooShort    = core.ErrSecretTooShort
)

// Config wires an Auth instance together. Directory and Secret are
// mandatory; everything else has a default.
type Config struct {
	// Secret signs access tokens. At least 32 characters.
	Secret string

	// MasterModeratorEmail is pinned to the moderator role on every login.
	// Empty disables the override.
	MasterModeratorEmail string

	// Directory is the account store.
	Directory Directory

	// HTTP, when set, gets the auth routes mounted on it.
	HTTP HTTPAdapter

	// Providers defaults to GitHub and Yandex.
	Providers []Provider

	// TokenTTL defaults to 24 hours.
	TokenTTL time.Duration

	// PasswordHasher defaults to argon2id.
	PasswordHasher PasswordHandler

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// BasePath defaults to "/api/auth".
	BasePath string
}

func New(config Config) (*Auth, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < minSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, minSecretLen)
	}
	if config.Directory == nil {
		return nil, ErrDirectoryRequired
	}

	// Set Defaults

	ttl := config.TokenTTL
	if ttl <= 0 {
		ttl = crypto.DefaultTokenTTL
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	oauthProviders := config.Providers
	if len(oauthProviders) == 0 {
		oauthProviders = []Provider{providers.NewGitHub(), providers.NewYandex()}
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	auth := services.NewAuth(
		config.Directory,
		core.Policy{MasterModeratorEmail: config.MasterModeratorEmail},
		crypto.NewTokenCodec(config.Secret, ttl),
		passwordHasher,
		config.Logger,
		oauthProviders...,
	)

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(auth, basePath); err != nil {
			return nil, err
		}
	}

	return auth, nil
}
