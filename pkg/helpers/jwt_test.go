package helpers

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("super-secret"), TTL: time.Hour}
	userID := "user-123"

	tok, exp, err := m.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if until := time.Until(exp); until < 55*time.Minute || until > time.Hour {
		t.Fatalf("expiry not ~1h out: %v", exp)
	}

	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, userID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("secret"), TTL: -1 * time.Second}
	tok, _, err := m.GenerateToken("u1")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := m.ParseToken(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := &JWTManager{Secret: []byte("right-secret"), TTL: time.Hour}
	tok, _, err := issuer.GenerateToken("u2")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	verifier := &JWTManager{Secret: []byte("wrong-secret"), TTL: time.Hour}
	if _, err := verifier.ParseToken(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("k"), TTL: time.Hour}
	if _, err := m.ParseToken("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
