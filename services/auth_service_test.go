package services

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	service := NewAuthService(nil, "test-secret")

	token, err := service.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	adminID, err := service.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if adminID != 42 {
		t.Fatalf("expected admin id 42, got %d", adminID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a")
	verifier := NewAuthService(nil, "secret-b")

	token, err := issuer.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	service := NewAuthService(nil, "test-secret")

	if _, err := service.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
