package utils

import (
	"testing"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, 24)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateSessionToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateSessionToken_DifferentTokens(t *testing.T) {
	token1, _ := GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, 24)
	token2, _ := GenerateSessionToken("uid-2", "b@club.org", "Bob", "admin", true, 24)

	if token1 == token2 {
		t.Error("different users should produce different tokens")
	}
}

func TestParseSessionToken(t *testing.T) {
	token, _ := GenerateSessionToken("uid-42", "lead@club.org", "Lead", "president", true, 24)

	claims, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}

	if claims.UID != "uid-42" {
		t.Errorf("UID = %q, expected %q", claims.UID, "uid-42")
	}
	if claims.Email != "lead@club.org" {
		t.Errorf("Email = %q, expected %q", claims.Email, "lead@club.org")
	}
	if claims.Name != "Lead" {
		t.Errorf("Name = %q, expected %q", claims.Name, "Lead")
	}
	if claims.Role != "president" {
		t.Errorf("Role = %q, expected %q", claims.Role, "president")
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin should be true")
	}
}

func TestParseSessionToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}

	for _, token := range invalidTokens {
		if _, err := ParseSessionToken(token); err == nil {
			t.Errorf("ParseSessionToken(%q) should return error", token)
		}
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, _ := GenerateSessionToken("uid-1", "a@club.org", "Alice", "member", false, 24)

	SetJWTSecret("a-different-secret")
	defer SetJWTSecret("test-secret-key-for-testing")

	if _, err := ParseSessionToken(token); err == nil {
		t.Error("token signed with another secret should not verify")
	}
}
