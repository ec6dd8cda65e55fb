package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ddanshin/storozh/core"
	"github.com/ddanshin/storozh/pkg/crypto"
)

const maxUsernameBaseLength = 30

var usernameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.\-]`)

// LoginWithProvider runs one OAuth login attempt end to end: resolve the
// external identity, look up or provision the account keyed by normalized
// email, enforce the cabinet gate, and issue a session token.
//
// Durable writes are not rolled back on a later failure: an account created
// or updated before a policy denial stays persisted.
func (s *Auth) LoginWithProvider(ctx context.Context, provider string, payload core.ProviderPayload) (*core.LoginResult, error) {
	adapter, ok := s.providers[provider]
	if !ok {
		return nil, core.ErrUnknownProvider
	}

	// Step 1: Resolve the external identity (provider API call where needed).
	identity, err := adapter.Identity(ctx, payload)
	if err != nil {
		return nil, err
	}

	// Step 2: Normalize the email; it is the join key for everything below.
	email := core.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, core.ErrEmailRequired
	}

	// Step 3: Look up, then provision or update.
	account, err := s.directory.FindByEmail(ctx, email)
	switch {
	case err == nil:
		account, err = s.updateExisting(ctx, adapter, identity, email, account)
	case errors.Is(err, core.ErrAccountNotFound):
		account, err = s.createAccount(ctx, adapter, identity, email)
		if errors.Is(err, core.ErrAccountExists) {
			// Lost the insert race: the row appeared between lookup and
			// insert. Retry once as an update flow against the winner's row.
			var existing *core.Account
			existing, err = s.directory.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to look up account after insert conflict: %w", err)
			}
			account, err = s.updateExisting(ctx, adapter, identity, email, existing)
		}
	default:
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if err != nil {
		return nil, err
	}

	// Step 4: Enforce the cabinet gate on the fresh row only.
	if err := s.policy.CabinetGate(account.Role, account.CabinetAccessEnabled); err != nil {
		return nil, err
	}

	// Step 5: Issue the session token from the fresh row.
	claims := crypto.Claims{
		AccountID:  account.ID,
		Username:   account.Username,
		Role:       string(account.Role),
		AuthMethod: string(account.AuthMethod),
	}
	claims.Subject = account.Email

	token, err := s.codec.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &core.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.codec.TTL().Seconds()),
		User:        account.Public(),
	}, nil
}

// createAccount provisions an account for a previously unseen email.
func (s *Auth) createAccount(ctx context.Context, adapter core.Provider, identity *core.ProviderIdentity, email string) (*core.Account, error) {
	username, err := s.deriveUsername(identity.Login, email)
	if err != nil {
		return nil, err
	}

	// OAuth accounts never log in with a password, but they still carry a
	// hash of a random secret so credential invariants hold uniformly.
	secret, err := crypto.ThrowawaySecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential: %w", err)
	}
	credentialHash, err := s.passwords.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	draft := core.AccountDraft{
		Username:             username,
		Email:                email,
		CredentialHash:       credentialHash,
		Role:                 s.policy.RoleOnCreate(email),
		IsActive:             true,
		CabinetAccessEnabled: adapter.CabinetAccessOnCreate(s.policy.IsMasterModerator(email)),
		AuthMethod:           adapter.AuthMethod(),
		GitHubID:             identity.GitHubID,
	}
	if identity.YandexAccessToken != "" {
		draft.YandexAccessToken = &identity.YandexAccessToken
		if identity.YandexRefreshToken != "" {
			draft.YandexRefreshToken = &identity.YandexRefreshToken
		}
		draft.YandexTokenExpiresAt = identity.YandexTokenExpiresAt
	}

	account, err := s.directory.Insert(ctx, draft)
	if err != nil {
		// ErrAccountExists passes through for the caller's race retry.
		return nil, err
	}

	s.logger.Info("new account registered via oauth",
		"provider", adapter.Name(), "email", email, "username", account.Username)
	return account, nil
}

// updateExisting overwrites provider linkage and re-derives the role for a
// repeat login, then re-reads the row. The returned account is always the
// post-update row; the caller must not reuse the pre-update one.
func (s *Auth) updateExisting(ctx context.Context, adapter core.Provider, identity *core.ProviderIdentity, email string, account *core.Account) (*core.Account, error) {
	// Inactive accounts fail before any linkage field is written.
	if !account.IsActive {
		return nil, core.ErrAccountInactive
	}

	method := adapter.AuthMethod()
	role := s.policy.RoleOnLogin(email, account.Role)
	now := time.Now().UTC()

	update := core.AccountUpdate{
		AuthMethod:           &method,
		Role:                 &role,
		CabinetAccessEnabled: adapter.CabinetAccessOnLogin(),
		LastLoginAt:          &now,
	}
	if identity.GitHubID != nil {
		update.GitHubID = identity.GitHubID
	}
	if identity.YandexAccessToken != "" {
		update.YandexAccessToken = &identity.YandexAccessToken
		update.YandexRefreshToken = &identity.YandexRefreshToken
		if identity.YandexTokenExpiresAt != nil {
			update.YandexTokenExpiresAt = identity.YandexTokenExpiresAt
		} else {
			update.YandexTokenExpiresAt = &time.Time{}
		}
	}

	if err := s.directory.UpdateFields(ctx, email, update); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	fresh, err := s.reread(ctx, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account logged in via oauth",
		"provider", adapter.Name(), "email", email, "username", fresh.Username)
	return fresh, nil
}

// reread discards the pre-update in-memory row and fetches the current one.
// Skipping this step would let a login authorize against a cabinet-access
// value that a concurrent update has since changed.
func (s *Auth) reread(ctx context.Context, email string) (*core.Account, error) {
	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read account: %w", err)
	}
	return account, nil
}

// deriveUsername builds a unique username from the provider login (or the
// email local-part), sanitized, length-capped, and suffixed with a short
// random token to avoid collisions.
func (s *Auth) deriveUsername(login, email string) (string, error) {
	base := strings.TrimSpace(login)
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	base = usernameSanitizer.ReplaceAllString(base, "_")
	if len(base) > maxUsernameBaseLength {
		base = base[:maxUsernameBaseLength]
	}
	if base == "" {
		base = "user"
	}

	suffix, err := s.nanoid.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate username suffix: %w", err)
	}
	return base + "_" + suffix, nil
}
