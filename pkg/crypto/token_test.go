package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testClaims(subject string) Claims {
	claims := Claims{
		AccountID:  "acc-1",
		Username:   "alice",
		Role:       "user",
		AuthMethod: "yandex_oauth",
	}
	claims.Subject = subject
	return claims
}

// Requirement: verify(issue(claims)) returns the original subject and
// denormalized claims for any valid claim set.
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue(testClaims("alice@example.com"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.Subject != "alice@example.com" {
		t.Errorf("subject = %q, want %q", got.Subject, "alice@example.com")
	}
	if got.Username != "alice" || got.Role != "user" || got.AuthMethod != "yandex_oauth" {
		t.Errorf("denormalized claims lost: %+v", got)
	}
	if got.ExpiresAt == nil || time.Until(got.ExpiresAt.Time) <= 0 {
		t.Error("token should carry a future expiry")
	}
}

// Requirement: issuing without a subject is refused.
func TestTokenCodec_Issue_RequiresSubject(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	if _, err := codec.Issue(testClaims("")); !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("Issue() error = %v, want ErrSubjectRequired", err)
	}
}

// Requirement: tampered, expired, foreign-key, and malformed tokens are all
// verification failures; the claims never come back.
func TestTokenCodec_Verify_Failures(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	valid, err := codec.Issue(testClaims("alice@example.com"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expiredCodec := NewTokenCodec(testSecret, -time.Minute)
	expired, err := expiredCodec.Issue(testClaims("alice@example.com"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherCodec := NewTokenCodec("another-secret-another-secret-32", time.Hour)
	foreign, err := otherCodec.Issue(testClaims("alice@example.com"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "tampered", token: valid + "x"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			claims, err := codec.Verify(test.token)
			if err == nil {
				t.Fatal("Verify() should fail")
			}
			if claims != nil {
				t.Error("Verify() must not return claims on failure")
			}
		})
	}
}

// Requirement: a structurally valid token without a subject claim is a
// verification failure.
func TestTokenCodec_Verify_MissingSubject(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	// Sign a subject-less token directly; Issue refuses to build one.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign error = %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

// Requirement: non-HMAC algorithms are rejected even with a correct payload.
func TestTokenCodec_Verify_RejectsAlgNone(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error = %v", err)
	}

	if _, err := codec.Verify(token); err == nil {
		t.Fatal("Verify() should reject the none algorithm")
	}
}
