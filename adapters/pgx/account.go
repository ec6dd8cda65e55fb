package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ddanshin/storozh/core"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

const accountColumns = `id, username, email, hashed_password, role, is_active, cabinet_access_enabled, auth_method,
	github_id, yandex_access_token, yandex_refresh_token, yandex_token_expires_at, last_login, created_at, updated_at`

func (a *Adapter) FindByUsername(ctx context.Context, username string) (*core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM public.users WHERE username = $1`
	return a.queryAccount(ctx, q, username)
}

func (a *Adapter) FindByEmail(ctx context.Context, email string) (*core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM public.users WHERE email = $1`
	return a.queryAccount(ctx, q, email)
}

func (a *Adapter) queryAccount(ctx context.Context, query string, arg any) (*core.Account, error) {
	account := &core.Account{}
	err := a.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID, &account.Username, &account.Email, &account.CredentialHash,
		&account.Role, &account.IsActive, &account.CabinetAccessEnabled, &account.AuthMethod,
		&account.GitHubID, &account.YandexAccessToken, &account.YandexRefreshToken, &account.YandexTokenExpiresAt,
		&account.LastLoginAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (a *Adapter) Insert(ctx context.Context, draft core.AccountDraft) (*core.Account, error) {
	query := `INSERT INTO public.users
	          (username, email, hashed_password, role, is_active, cabinet_access_enabled, auth_method,
	           github_id, yandex_access_token, yandex_refresh_token, yandex_token_expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at, updated_at`

	account := &core.Account{
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
	}

	err := a.pool.QueryRow(ctx, query,
		draft.Username, draft.Email, draft.CredentialHash, draft.Role, draft.IsActive,
		draft.CabinetAccessEnabled, draft.AuthMethod,
		draft.GitHubID, draft.YandexAccessToken, draft.YandexRefreshToken, draft.YandexTokenExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, core.ErrAccountExists
		}
		return nil, err
	}

	return account, nil
}

// UpdateFields writes only the fields present in the update. The SET clause
// is assembled dynamically; parameters stay positional.
func (a *Adapter) UpdateFields(ctx context.Context, email string, fields core.AccountUpdate) error {
	if fields.IsEmpty() {
		return nil
	}

	set := make([]string, 0, 9)
	args := make([]any, 0, 10)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Role != nil {
		add("role", *fields.Role)
	}
	if fields.CabinetAccessEnabled != nil {
		add("cabinet_access_enabled", *fields.CabinetAccessEnabled)
	}
	if fields.AuthMethod != nil {
		add("auth_method", *fields.AuthMethod)
	}
	if fields.GitHubID != nil {
		add("github_id", *fields.GitHubID)
	}
	if fields.YandexAccessToken != nil {
		add("yandex_access_token", *fields.YandexAccessToken)
	}
	if fields.YandexRefreshToken != nil {
		// An empty refresh token means the provider sent none; store NULL.
		if *fields.YandexRefreshToken == "" {
			add("yandex_refresh_token", nil)
		} else {
			add("yandex_refresh_token", *fields.YandexRefreshToken)
		}
	}
	if fields.YandexTokenExpiresAt != nil {
		// The zero time clears the stored expiry.
		if fields.YandexTokenExpiresAt.IsZero() {
			add("yandex_token_expires_at", nil)
		} else {
			add("yandex_token_expires_at", *fields.YandexTokenExpiresAt)
		}
	}
	if fields.LastLoginAt != nil {
		add("last_login", *fields.LastLoginAt)
	}

	set = append(set, "updated_at = now()")

	args = append(args, email)
	query := fmt.Sprintf("UPDATE public.users SET %s WHERE email = $%d RETURNING updated_at",
		strings.Join(set, ", "), len(args))

	var updatedAt time.Time
	if err := a.pool.QueryRow(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrAccountNotFound
		}
		return err
	}
	return nil
}
