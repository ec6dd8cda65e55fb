package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// DIRECTORY PORT (account store)
// ============================================

// Directory is the account store abstraction. All operations are atomic with
// respect to a single account row; email and username are unique keys.
//
// Callers that feed an authorization decision from an UpdateFields result must
// re-read the row with FindByEmail afterwards. A row read before the write is
// never trusted for post-write decisions.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Insert persists a draft and returns the stored row including the
	// generated id. A unique-key conflict returns ErrAccountExists.
	Insert(ctx context.Context, draft AccountDraft) (*Account, error)

	// UpdateFields writes the non-nil fields of the update to the row keyed
	// by email. Returns ErrAccountNotFound if no such row exists.
	UpdateFields(ctx context.Context, email string, fields AccountUpdate) error
}

// ============================================
// PROVIDER PORT (external OAuth identity)
// ============================================

// ProviderPayload is the raw login request body. Which fields matter depends
// on the provider: GitHub consumes AccessToken, Yandex consumes the
// caller-asserted email plus its token material.
type ProviderPayload struct {
	AccessToken string `json:"access_token"`

	Email              string `json:"email"`
	YandexAccessToken  string `json:"yandex_access_token"`
	YandexRefreshToken string `json:"yandex_refresh_token"`
	// ExpiresIn is seconds until the provider token expires. Kept loose
	// because clients send it as a number or a string; malformed values fall
	// back to one hour.
	ExpiresIn any `json:"expires_in"`
}

// ProviderIdentity is the resolved external identity. Email is not yet
// normalized. Linkage fields that are zero are not written to the account.
type ProviderIdentity struct {
	Email string
	Login string

	GitHubID             *int64
	YandexAccessToken    string
	YandexRefreshToken   string
	YandexTokenExpiresAt *time.Time
}

// Provider adapts one external OAuth provider to the identity linker.
// The cabinet-access hooks make the per-provider policy asymmetry explicit:
// GitHub grants cabinet access at creation only to the master moderator and
// never touches it afterwards, Yandex grants it unconditionally on every login.
type Provider interface {
	Name() string
	AuthMethod() AuthMethod

	// Identity validates the payload and resolves the external identity,
	// calling out to the provider API where the provider requires it.
	Identity(ctx context.Context, payload ProviderPayload) (*ProviderIdentity, error)

	// CabinetAccessOnCreate is the cabinet flag for a freshly provisioned
	// account.
	CabinetAccessOnCreate(isMaster bool) bool

	// CabinetAccessOnLogin is the value to overwrite on every repeat login,
	// or nil to leave the stored flag untouched.
	CabinetAccessOnLogin() *bool
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// LoginResult is the successful outcome of a provider login.
type LoginResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in,omitempty"`
	User        PublicAccount `json:"user"`
}

// StatusUser is the minimal identity echoed by the status probe.
type StatusUser struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// StatusResult is the outcome of the read-only status probe. It carries no
// failure detail: every failure collapses to Authenticated == false.
type StatusResult struct {
	Authenticated bool        `json:"authenticated"`
	User          *StatusUser `json:"user"`
}

// AuthHandler provides authentication operations for HTTP adapters.
type AuthHandler interface {
	LoginWithProvider(ctx context.Context, provider string, payload ProviderPayload) (*LoginResult, error)
	Resolve(ctx context.Context, token string) (*Principal, error)
	Status(ctx context.Context, token string) *StatusResult
	AccessPolicy() Policy
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(handler AuthHandler, basePath string) error
}
