package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"
)

func newTestPair(t *testing.T) (*Generator, *Verifier) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	gen := NewGenerator(key, "dealerdesk", "dealerdesk-vendors", "test-key", time.Hour, 24*time.Hour)
	ver := NewVerifier(&key.PublicKey, "dealerdesk", "dealerdesk-vendors")
	return gen, ver
}

func TestAccessTokenRoundTrip(t *testing.T) {
	gen, ver := newTestPair(t)

	token, jti, err := gen.GenerateAccessToken(42, "web")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti == "" {
		t.Fatal("empty jti")
	}

	claims, err := ver.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.VendorID != 42 {
		t.Errorf("vendor id = %d, want 42", claims.VendorID)
	}
	if claims.Device != "web" {
		t.Errorf("device = %q, want web", claims.Device)
	}
	if claims.ID != jti {
		t.Errorf("claims jti %q != returned jti %q", claims.ID, jti)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	gen, ver := newTestPair(t)

	refresh, _, err := gen.GenerateRefreshToken(42, "web")
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	if _, err := ver.VerifyAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ver.VerifyRefreshToken(refresh); err != nil {
		t.Errorf("refresh token rejected: %v", err)
	}

	access, _, err := gen.GenerateAccessToken(42, "web")
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	if _, err := ver.VerifyRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestVerifyRejectsWrongIssuerAndAudience(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	gen := NewGenerator(key, "someone-else", "other-audience", "k", time.Hour, 24*time.Hour)
	ver := NewVerifier(&key.PublicKey, "dealerdesk", "dealerdesk-vendors")

	token, _, err := gen.GenerateAccessToken(1, "web")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ver.Verify(token); err == nil {
		t.Error("token with foreign issuer/audience accepted")
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	gen, _ := newTestPair(t)
	_, ver := newTestPair(t)

	token, _, err := gen.GenerateAccessToken(1, "web")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ver.Verify(token); err == nil {
		t.Error("token signed with a different key accepted")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	gen := NewGenerator(key, "dealerdesk", "dealerdesk-vendors", "k", time.Hour, 24*time.Hour)
	ver := NewVerifier(&key.PublicKey, "dealerdesk", "dealerdesk-vendors")

	token, _, err := gen.Generate(1, "web", "access", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ver.Verify(token); err == nil {
		t.Error("expired token accepted")
	}
}
