package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ddanshin/storozh/core"
)

const githubAPIBaseURL = "https://api.github.com"

// GitHub resolves identities against the GitHub API using a caller-supplied
// access token. The primary profile may hide the email; in that case the
// emails listing is consulted and the entry marked primary wins.
type GitHub struct {
	// Client defaults to http.DefaultClient. Timeouts belong to the client.
	Client *http.Client
	// BaseURL is overridable for tests.
	BaseURL string
}

var _ core.Provider = (*GitHub)(nil)

func NewGitHub() *GitHub {
	return &GitHub{BaseURL: githubAPIBaseURL}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthMethod() core.AuthMethod { return core.AuthMethodGitHub }

func (g *GitHub) CabinetAccessOnCreate(isMaster bool) bool { return isMaster }

// GitHub re-logins never touch the cabinet flag.
func (g *GitHub) CabinetAccessOnLogin() *bool { return nil }

func (g *GitHub) Identity(ctx context.Context, payload core.ProviderPayload) (*core.ProviderIdentity, error) {
	if payload.AccessToken == "" {
		return nil, core.ErrProviderTokenRequired
	}

	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := g.get(ctx, "/user", payload.AccessToken, &profile); err != nil {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		// A failed listing is not fatal on its own; it just leaves no email.
		if err := g.get(ctx, "/user/emails", payload.AccessToken, &emails); err == nil && len(emails) > 0 {
			email = emails[0].Email
			for _, e := range emails {
				if e.Primary {
					email = e.Email
					break
				}
			}
		}
	}
	if email == "" {
		return nil, core.ErrEmailRequired
	}

	githubID := profile.ID
	return &core.ProviderIdentity{
		Email:    email,
		Login:    profile.Login,
		GitHubID: &githubID,
	}, nil
}

func (g *GitHub) get(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrProviderRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: github returned %d", core.ErrProviderRejected, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrProviderRejected, err)
	}
	return nil
}

func (g *GitHub) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}
