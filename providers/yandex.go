package providers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ddanshin/storozh/core"
)

const yandexExpiryFallback = int64(3600)

// Yandex trusts the caller-asserted email and token material in the payload;
// there is no server-side round trip to the Yandex API for this provider.
type Yandex struct{}

var _ core.Provider = (*Yandex)(nil)

var yandexCabinetOnLogin = true

func NewYandex() *Yandex { return &Yandex{} }

func (y *Yandex) Name() string { return "yandex" }

func (y *Yandex) AuthMethod() core.AuthMethod { return core.AuthMethodYandex }

func (y *Yandex) CabinetAccessOnCreate(bool) bool { return true }

// Yandex overwrites the cabinet flag with true on every login.
func (y *Yandex) CabinetAccessOnLogin() *bool { return &yandexCabinetOnLogin }

func (y *Yandex) Identity(ctx context.Context, payload core.ProviderPayload) (*core.ProviderIdentity, error) {
	if payload.YandexAccessToken == "" {
		return nil, core.ErrProviderTokenRequired
	}

	email := core.NormalizeEmail(payload.Email)
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if !core.ValidEmail(email) {
		return nil, core.ErrInvalidEmail
	}

	return &core.ProviderIdentity{
		Email:                email,
		YandexAccessToken:    payload.YandexAccessToken,
		YandexRefreshToken:   payload.YandexRefreshToken,
		YandexTokenExpiresAt: expiryFromSeconds(payload.ExpiresIn, time.Now()),
	}, nil
}

// expiryFromSeconds converts a loosely typed expires_in value to an absolute
// expiry. Malformed values fall back to one hour; non-positive values mean
// no stored expiry.
func expiryFromSeconds(v any, now time.Time) *time.Time {
	seconds := yandexExpiryFallback
	switch n := v.(type) {
	case nil:
	case float64:
		seconds = int64(n)
	case int:
		seconds = int64(n)
	case int64:
		seconds = n
	case json.Number:
		if parsed, err := n.Int64(); err == nil {
			seconds = parsed
		}
	case string:
		if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			seconds = parsed
		}
	}
	if seconds <= 0 {
		return nil
	}
	expiresAt := now.UTC().Add(time.Duration(seconds) * time.Second)
	return &expiresAt
}
