package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ddanshin/storozh/core"
)

// FakeDirectory is a test-only fake implementing core.Directory. It stores
// accounts in a map keyed by normalized email and exposes error fields and
// hooks for behavior injection. Reads return copies, like rows from a real
// store, so staleness bugs are observable.
type FakeDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*core.Account
	nextID   int

	findErr   error
	insertErr error
	updateErr error

	// AfterUpdate runs while UpdateFields holds the lock, after the write.
	// Tests use it to emulate a concurrent writer racing the re-read.
	AfterUpdate func(d *FakeDirectory)

	// conflictWith, when set, makes the next Insert install this row (the
	// race winner's) and fail with ErrAccountExists.
	conflictWith *core.Account
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{accounts: make(map[string]*core.Account)}
}

// Put seeds an account directly, bypassing Insert bookkeeping.
func (f *FakeDirectory) Put(account *core.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *account
	f.accounts[core.NormalizeEmail(account.Email)] = &clone
}

// Stored returns a copy of the stored row, or nil.
func (f *FakeDirectory) Stored(email string) *core.Account {
	f.mu.RLock()
	defer f.mu.RUnlock()
	account, ok := f.accounts[core.NormalizeEmail(email)]
	if !ok {
		return nil
	}
	clone := *account
	return &clone
}

func (f *FakeDirectory) FindByEmail(_ context.Context, email string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	account, ok := f.accounts[core.NormalizeEmail(email)]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (f *FakeDirectory) FindByUsername(_ context.Context, username string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, account := range f.accounts {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (f *FakeDirectory) Insert(_ context.Context, draft core.AccountDraft) (*core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.conflictWith != nil {
		winner := *f.conflictWith
		f.accounts[core.NormalizeEmail(winner.Email)] = &winner
		f.conflictWith = nil
		return nil, core.ErrAccountExists
	}

	email := core.NormalizeEmail(draft.Email)
	if _, exists := f.accounts[email]; exists {
		return nil, core.ErrAccountExists
	}
	for _, account := range f.accounts {
		if account.Username == draft.Username {
			return nil, core.ErrAccountExists
		}
	}

	f.nextID++
	now := time.Now().UTC()
	account := &core.Account{
		ID:                   "acc-" + strconv.Itoa(f.nextID),
		Username:             draft.Username,
		Email:                email,
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
	f.accounts[email] = account

	clone := *account
	return &clone, nil
}

func (f *FakeDirectory) UpdateFields(_ context.Context, email string, fields core.AccountUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	account, ok := f.accounts[core.NormalizeEmail(email)]
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
		if *fields.YandexRefreshToken == "" {
			account.YandexRefreshToken = nil
		} else {
			account.YandexRefreshToken = fields.YandexRefreshToken
		}
	}
	if fields.YandexTokenExpiresAt != nil {
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

	if f.AfterUpdate != nil {
		f.AfterUpdate(f)
	}
	return nil
}

// setCabinetLocked flips the cabinet flag from inside an AfterUpdate hook.
func (f *FakeDirectory) setCabinetLocked(email string, enabled bool) {
	if account, ok := f.accounts[core.NormalizeEmail(email)]; ok {
		account.CabinetAccessEnabled = enabled
	}
}

// FakeProvider is a test-only fake implementing core.Provider with
// configurable identity results and cabinet policy.
type FakeProvider struct {
	name            string
	method          core.AuthMethod
	identity        *core.ProviderIdentity
	identityErr     error
	cabinetOnCreate func(isMaster bool) bool
	cabinetOnLogin  *bool
}

func (f *FakeProvider) Name() string                { return f.name }
func (f *FakeProvider) AuthMethod() core.AuthMethod { return f.method }

func (f *FakeProvider) Identity(context.Context, core.ProviderPayload) (*core.ProviderIdentity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	clone := *f.identity
	return &clone, nil
}

func (f *FakeProvider) CabinetAccessOnCreate(isMaster bool) bool {
	if f.cabinetOnCreate != nil {
		return f.cabinetOnCreate(isMaster)
	}
	return isMaster
}

func (f *FakeProvider) CabinetAccessOnLogin() *bool { return f.cabinetOnLogin }
