package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ddanshin/storozh/core"
)

func githubServer(t *testing.T, profile string, emails string, emailsStatus int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "token gh-token" {
			t.Errorf("Authorization header = %q, want %q", got, "token gh-token")
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(profile))
		case "/user/emails":
			if emailsStatus != 0 {
				w.WriteHeader(emailsStatus)
				return
			}
			_, _ = w.Write([]byte(emails))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// Requirement: a profile that exposes its email resolves without touching
// the emails listing.
func TestGitHub_Identity(t *testing.T) {
	server := githubServer(t, `{"id": 42, "login": "octocat", "email": "octo@example.com"}`, "", http.StatusInternalServerError)

	github := &GitHub{BaseURL: server.URL}
	identity, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
	if err != nil {
		t.Fatalf("Identity() error = %v", err)
	}
	if identity.Email != "octo@example.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "octo@example.com")
	}
	if identity.Login != "octocat" {
		t.Errorf("Login = %q, want %q", identity.Login, "octocat")
	}
	if identity.GitHubID == nil || *identity.GitHubID != 42 {
		t.Errorf("GitHubID = %v, want 42", identity.GitHubID)
	}
}

// Requirement: when the profile hides the email, the emails listing is
// consulted and the entry marked primary wins over earlier entries.
func TestGitHub_Identity_EmailFallback(t *testing.T) {
	tests := []struct {
		name   string
		emails string
		want   string
	}{
		{
			name:   "primary entry wins",
			emails: `[{"email": "alt@example.com", "primary": false}, {"email": "main@example.com", "primary": true}]`,
			want:   "main@example.com",
		},
		{
			name:   "no primary falls back to first",
			emails: `[{"email": "first@example.com", "primary": false}, {"email": "second@example.com", "primary": false}]`,
			want:   "first@example.com",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			server := githubServer(t, `{"id": 7, "login": "ghost", "email": ""}`, test.emails, 0)

			github := &GitHub{BaseURL: server.URL}
			identity, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
			if err != nil {
				t.Fatalf("Identity() error = %v", err)
			}
			if identity.Email != test.want {
				t.Errorf("Email = %q, want %q", identity.Email, test.want)
			}
		})
	}
}

// Requirement: a hidden profile email combined with an unusable emails
// listing means the identity has no email to link with.
func TestGitHub_Identity_NoEmailAnywhere(t *testing.T) {
	server := githubServer(t, `{"id": 7, "login": "ghost", "email": ""}`, "", http.StatusForbidden)

	github := &GitHub{BaseURL: server.URL}
	_, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
	if !errors.Is(err, core.ErrEmailRequired) {
		t.Errorf("Identity() error = %v, want ErrEmailRequired", err)
	}
}

// Requirement: a rejected or malformed upstream response surfaces as a
// provider rejection, and a missing token never reaches the network.
func TestGitHub_Identity_Failures(t *testing.T) {
	t.Run("missing access token", func(t *testing.T) {
		github := NewGitHub()
		github.BaseURL = "http://127.0.0.1:0" // must not be dialed
		_, err := github.Identity(context.Background(), core.ProviderPayload{})
		if !errors.Is(err, core.ErrProviderTokenRequired) {
			t.Errorf("Identity() error = %v, want ErrProviderTokenRequired", err)
		}
	})

	t.Run("unauthorized token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		github := &GitHub{BaseURL: server.URL}
		_, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
		if !errors.Is(err, core.ErrProviderRejected) {
			t.Errorf("Identity() error = %v, want ErrProviderRejected", err)
		}
	})

	t.Run("malformed profile body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		github := &GitHub{BaseURL: server.URL}
		_, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
		if !errors.Is(err, core.ErrProviderRejected) {
			t.Errorf("Identity() error = %v, want ErrProviderRejected", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		github := &GitHub{BaseURL: "http://127.0.0.1:1"}
		_, err := github.Identity(context.Background(), core.ProviderPayload{AccessToken: "gh-token"})
		if !errors.Is(err, core.ErrProviderRejected) {
			t.Errorf("Identity() error = %v, want ErrProviderRejected", err)
		}
	})
}
