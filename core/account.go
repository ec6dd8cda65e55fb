package core

import "time"

// Role is the coarse authorization level of an account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AuthMethod records the mechanism of the last successful authentication.
type AuthMethod string

const (
	AuthMethodLocal  AuthMethod = "local"
	AuthMethodGitHub AuthMethod = "github_oauth"
	AuthMethodYandex AuthMethod = "yandex_oauth"
)

// Account is the persisted identity record.
//
// Email is the join key across authentication methods: a GitHub login and a
// Yandex login carrying the same normalized email resolve to the same account.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// CredentialHash is a random throwaway value for OAuth-created accounts.
	// It is never used to authenticate an OAuth login.
	CredentialHash string `json:"-"`

	Role                 Role       `json:"role"`
	IsActive             bool       `json:"is_active"`
	CabinetAccessEnabled bool       `json:"cabinet_access_enabled"`
	AuthMethod           AuthMethod `json:"auth_method"`

	// Provider linkage: last-known session material per provider.
	GitHubID             *int64     `json:"-"`
	YandexAccessToken    *string    `json:"-"`
	YandexRefreshToken   *string    `json:"-"`
	YandexTokenExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AccountDraft is the input for Directory.Insert. The directory assigns
// ID and timestamps.
type AccountDraft struct {
	Username             string
	Email                string
	CredentialHash       string
	Role                 Role
	IsActive             bool
	CabinetAccessEnabled bool
	AuthMethod           AuthMethod

	GitHubID             *int64
	YandexAccessToken    *string
	YandexRefreshToken   *string
	YandexTokenExpiresAt *time.Time
}

// AccountUpdate is a partial fieldset for Directory.UpdateFields.
// Nil fields are left untouched. A non-nil YandexTokenExpiresAt pointing at
// the zero time clears the stored expiry.
type AccountUpdate struct {
	Role                 *Role
	CabinetAccessEnabled *bool
	AuthMethod           *AuthMethod

	GitHubID             *int64
	YandexAccessToken    *string
	YandexRefreshToken   *string
	YandexTokenExpiresAt *time.Time

	LastLoginAt *time.Time
}

// IsEmpty reports whether the update would write nothing.
func (u AccountUpdate) IsEmpty() bool {
	return u.Role == nil && u.CabinetAccessEnabled == nil && u.AuthMethod == nil &&
		u.GitHubID == nil && u.YandexAccessToken == nil && u.YandexRefreshToken == nil &&
		u.YandexTokenExpiresAt == nil && u.LastLoginAt == nil
}

// PublicAccount is the projection of an account that is safe to return to
// clients. Provider tokens and credential hashes never leave the core.
type PublicAccount struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	AuthMethod AuthMethod `json:"auth_method"`
}

// Public returns the client-safe projection of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		AuthMethod: a.AuthMethod,
	}
}

// Principal is the resolved identity snapshot behind a verified token.
// It is computed from the current directory row, not from token claims.
type Principal struct {
	ID                   string     `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	Role                 Role       `json:"role"`
	IsActive             bool       `json:"is_active"`
	CabinetAccessEnabled bool       `json:"cabinet_access_enabled"`
	AuthMethod           AuthMethod `json:"auth_method"`
}

// AsPrincipal snapshots the account for authorization decisions.
func (a *Account) AsPrincipal() Principal {
	return Principal{
		ID:                   a.ID,
		Username:             a.Username,
		Email:                a.Email,
		Role:                 a.Role,
		IsActive:             a.IsActive,
		CabinetAccessEnabled: a.CabinetAccessEnabled,
		AuthMethod:           a.AuthMethod,
	}
}
