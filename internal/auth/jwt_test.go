package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := IssueAccessToken("admin@example.com", "sess-1", "admin", secret, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := VerifyAccessToken(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "admin@example.com" || claims.SessionID != "sess-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := "test-secret"
	token, err := IssueAccessToken("admin@example.com", "sess-1", "admin", secret, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyAccessToken(token, secret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := IssueAccessToken("admin@example.com", "sess-1", "admin", "secret-a", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyAccessToken(token, "secret-b"); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "missing scheme", header: "abc", expected: ""},
		{name: "empty", header: "", expected: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseBearerToken(tc.header); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatalf("expected mismatch to fail")
	}
}
