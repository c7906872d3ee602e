package invite

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
)

func testKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return pub, priv
}

func testConfigs(t *testing.T, now time.Time) (SignerConfig, GrantConfig) {
	t.Helper()
	pub, priv := testKeys(t)
	clock := func() time.Time { return now }
	signer := SignerConfig{
		Issuer:   "wanderlist",
		Audience: "trip-service",
		Key:      priv,
		TTL:      72 * time.Hour,
		Now:      clock,
	}
	verifier := GrantConfig{
		Issuer:   "wanderlist",
		Audience: "trip-service",
		Key:      pub,
		Now:      clock,
	}
	return signer, verifier
}

func TestLoadGrantConfigFromEnv(t *testing.T) {
	t.Setenv(EnvGrantIssuer, "")
	t.Setenv(EnvGrantAudience, "")
	t.Setenv(EnvGrantPublicKey, "")

	if _, err := LoadGrantConfigFromEnv(nil); err == nil {
		t.Fatal("expected error when env vars are missing")
	}

	pub, _ := testKeys(t)

	t.Setenv(EnvGrantIssuer, "issuer")
	t.Setenv(EnvGrantAudience, "audience")
	t.Setenv(EnvGrantPublicKey, base64.RawStdEncoding.EncodeToString(pub))

	cfg, err := LoadGrantConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load grant config: %v", err)
	}
	if cfg.Issuer != "issuer" || cfg.Audience != "audience" {
		t.Fatal("expected issuer and audience to be loaded")
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		t.Fatalf("expected public key size %d", ed25519.PublicKeySize)
	}
}

func TestLoadSignerConfigFromEnv(t *testing.T) {
	_, priv := testKeys(t)

	t.Setenv(EnvGrantIssuer, "issuer")
	t.Setenv(EnvGrantAudience, "audience")
	t.Setenv(EnvGrantPrivateKey, base64.RawStdEncoding.EncodeToString(priv))
	t.Setenv(EnvGrantTTL, "24h")

	cfg, err := LoadSignerConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load signer config: %v", err)
	}
	if cfg.TTL != 24*time.Hour {
		t.Fatalf("TTL = %v, want 24h", cfg.TTL)
	}
	if len(cfg.Key) != ed25519.PrivateKeySize {
		t.Fatalf("expected private key size %d", ed25519.PrivateKeySize)
	}
}

func TestIssueAndValidateGrant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer, verifier := testConfigs(t, now)

	subject := GrantExpectation{TripID: "trip-1", MemberID: "mem-1", UserID: "user-2"}
	grant, err := IssueGrant(signer, subject, "mem-1")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	claims, err := ValidateGrant(grant, subject, verifier)
	if err != nil {
		t.Fatalf("validate grant: %v", err)
	}
	if claims.TripID != "trip-1" || claims.MemberID != "mem-1" || claims.UserID != "user-2" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.JWTID != "mem-1" {
		t.Fatalf("JWTID = %q, want mem-1", claims.JWTID)
	}
	if !claims.ExpiresAt.Equal(now.Add(72 * time.Hour)) {
		t.Fatalf("ExpiresAt = %v", claims.ExpiresAt)
	}
}

func TestValidateGrantExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer, verifier := testConfigs(t, now)

	subject := GrantExpectation{TripID: "trip-1", MemberID: "mem-1", UserID: "user-2"}
	grant, err := IssueGrant(signer, subject, "mem-1")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	verifier.Now = func() time.Time { return now.Add(73 * time.Hour) }
	_, err = ValidateGrant(grant, subject, verifier)
	if apperrors.CodeOf(err) != apperrors.CodeInviteGrantExpired {
		t.Fatalf("expected expired grant error, got %v", err)
	}
}

func TestValidateGrantMismatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer, verifier := testConfigs(t, now)

	subject := GrantExpectation{TripID: "trip-1", MemberID: "mem-1", UserID: "user-2"}
	grant, err := IssueGrant(signer, subject, "mem-1")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	tests := []struct {
		name     string
		expected GrantExpectation
	}{
		{"wrong trip", GrantExpectation{TripID: "trip-9", MemberID: "mem-1", UserID: "user-2"}},
		{"wrong member", GrantExpectation{TripID: "trip-1", MemberID: "mem-9", UserID: "user-2"}},
		{"wrong user", GrantExpectation{TripID: "trip-1", MemberID: "mem-1", UserID: "user-9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateGrant(grant, tt.expected, verifier)
			if apperrors.CodeOf(err) != apperrors.CodeInviteGrantMismatch {
				t.Fatalf("expected mismatch error, got %v", err)
			}
		})
	}
}

func TestValidateGrantWrongKey(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer, _ := testConfigs(t, now)
	_, verifier := testConfigs(t, now)

	subject := GrantExpectation{TripID: "trip-1", MemberID: "mem-1", UserID: "user-2"}
	grant, err := IssueGrant(signer, subject, "mem-1")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	_, err = ValidateGrant(grant, subject, verifier)
	if apperrors.CodeOf(err) != apperrors.CodeInviteGrantInvalid {
		t.Fatalf("expected invalid grant error, got %v", err)
	}
}

func TestValidateGrantEmpty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, verifier := testConfigs(t, now)

	_, err := ValidateGrant("  ", GrantExpectation{}, verifier)
	if apperrors.CodeOf(err) != apperrors.CodeInviteGrantInvalid {
		t.Fatalf("expected invalid grant error, got %v", err)
	}
}
