package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return NewKeysFromPrivate(privateKey)
}

func TestTokenRoundTrip(t *testing.T) {
	k := testKeys(t)

	tokenStr, err := k.GenerateToken("user-1", RoleVendor, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := k.ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != RoleVendor {
		t.Errorf("role = %q, want %q", claims.Role, RoleVendor)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	k := testKeys(t)

	tokenStr, err := k.GenerateToken("user-1", RoleCustomer, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(tokenStr, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	if _, err := k.ValidateToken(strings.Join(parts, ".")); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	k := testKeys(t)

	tokenStr, err := k.GenerateToken("user-1", RoleCustomer, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := k.ValidateToken(tokenStr); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsOtherKey(t *testing.T) {
	signer := testKeys(t)
	verifier := testKeys(t)

	tokenStr, err := signer.GenerateToken("user-1", RoleCustomer, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ValidateToken(tokenStr); err == nil {
		t.Fatal("expected token signed by a different key to be rejected")
	}
}
