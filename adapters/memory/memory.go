// Package memory implements the account directory in process memory.
// It backs examples and tests; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ddanshin/storozh/core"
)

type Adapter struct {
	mu      sync.RWMutex
	byEmail map[string]*core.Account
	byName  map[string]string // username -> email
}

var _ core.Directory = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{
		byEmail: make(map[string]*core.Account),
		byName:  make(map[string]string),
	}
}

func (a *Adapter) FindByUsername(ctx context.Context, username string) (*core.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	email, ok := a.byName[username]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return copyAccount(a.byEmail[email]), nil
}

func (a *Adapter) FindByEmail(ctx context.Context, email string) (*core.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	account, ok := a.byEmail[email]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (a *Adapter) Insert(ctx context.Context, draft core.AccountDraft) (*core.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byEmail[draft.Email]; exists {
		return nil, core.ErrAccountExists
	}
	if _, exists := a.byName[draft.Username]; exists {
		return nil, core.ErrAccountExists
	}

	now := time.Now().UTC()
	account := &core.Account{
		ID:                   uuid.NewString(),
		Username:             draft.Username,
		Email:                draft.Email,
		CredentialHash:       draft.CredentialHash,
		Role:                 draft.Role,
		IsActive:             draft.IsActive,
		CabinetAccessEnabled: draft.CabinetAccessEnabled,
		AuthMethod:           draft.AuthMethod,
		GitHubID:             draft.GitHubID,
		YandexAccessToken:    draft.YandexAccessToken,
		YandexRefreshToken:   draft.YandexRefreshToken,
		YandexTokenExpiresAt: draft.YandexTokenExpiresAt,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	a.byEmail[account.Email] = account
	a.byName[account.Username] = account.Email

	return copyAccount(account), nil
}

func (a *Adapter) UpdateFields(ctx context.Context, email string, fields core.AccountUpdate) error {
	if fields.IsEmpty() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	account, ok := a.byEmail[email]
	if !ok {
		return core.ErrAccountNotFound
	}

	if fields.Role != nil {
		account.Role = *fields.Role
	}
	if fields.CabinetAccessEnabled != nil {
		account.CabinetAccessEnabled = *fields.CabinetAccessEnabled
	}
	if fields.AuthMethod != nil {
		account.AuthMethod = *fields.AuthMethod
	}
	if fields.GitHubID != nil {
		account.GitHubID = fields.GitHubID
	}
	if fields.YandexAccessToken != nil {
		account.YandexAccessToken = fields.YandexAccessToken
	}
	if fields.YandexRefreshToken != nil {
		// An empty refresh token means the provider sent none; store nothing.
		if *fields.YandexRefreshToken == "" {
			account.YandexRefreshToken = nil
		} else {
			account.YandexRefreshToken = fields.YandexRefreshToken
		}
	}
	if fields.YandexTokenExpiresAt != nil {
		// The zero time clears the stored expiry.
		if fields.YandexTokenExpiresAt.IsZero() {
			account.YandexTokenExpiresAt = nil
		} else {
			account.YandexTokenExpiresAt = fields.YandexTokenExpiresAt
		}
	}
	if fields.LastLoginAt != nil {
		account.LastLoginAt = fields.LastLoginAt
	}

	account.UpdatedAt = time.Now().UTC()
	return nil
}

// copyAccount shields stored rows from caller mutation.
func copyAccount(account *core.Account) *core.Account {
	clone := *account
	return &clone
}
