package services

import (
	"log/slog"

	"github.com/ddanshin/storozh/core"
	"github.com/ddanshin/storozh/pkg/crypto"
)

// Auth orchestrates OAuth identity linking and principal resolution over the
// directory, the token codec, and the registered provider adapters.
type Auth struct {
	directory core.Directory
	providers map[string]core.Provider
	policy    core.Policy
	codec     *crypto.TokenCodec
	passwords crypto.PasswordHandler
	nanoid    *crypto.NanoIDGenerator
	logger    *slog.Logger
}

// Ensure Auth implements AuthHandler
var _ core.AuthHandler = (*Auth)(nil)

func NewAuth(
	directory core.Directory,
	policy core.Policy,
	codec *crypto.TokenCodec,
	passwords crypto.PasswordHandler,
	logger *slog.Logger,
	providers ...core.Provider,
) *Auth {
	if logger == nil {
		logger = slog.Default()
	}

	registry := make(map[string]core.Provider, len(providers))
	for _, p := range providers {
		registry[p.Name()] = p
	}

	return &Auth{
		directory: directory,
		providers: registry,
		policy:    policy,
		codec:     codec,
		passwords: passwords,
		nanoid:    crypto.NewNanoID(),
		logger:    logger,
	}
}

// AccessPolicy exposes the pure access policy for callers that need zone
// decisions over a resolved principal.
func (s *Auth) AccessPolicy() core.Policy {
	return s.policy
}
