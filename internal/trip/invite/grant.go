// Package invite issues and verifies invitation grants, the signed tokens
// that let an invited user prove they are the addressee of a pending
// membership invitation.
package invite

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
)

// Environment variable names for grant configuration.
const (
	EnvGrantIssuer     = "WANDERLIST_INVITE_GRANT_ISSUER"
	EnvGrantAudience   = "WANDERLIST_INVITE_GRANT_AUDIENCE"
	EnvGrantPublicKey  = "WANDERLIST_INVITE_GRANT_PUBLIC_KEY"
	EnvGrantPrivateKey = "WANDERLIST_INVITE_GRANT_PRIVATE_KEY"
	EnvGrantTTL        = "WANDERLIST_INVITE_GRANT_TTL"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer     string        `env:"WANDERLIST_INVITE_GRANT_ISSUER"`
	Audience   string        `env:"WANDERLIST_INVITE_GRANT_AUDIENCE"`
	PublicKey  string        `env:"WANDERLIST_INVITE_GRANT_PUBLIC_KEY"`
	PrivateKey string        `env:"WANDERLIST_INVITE_GRANT_PRIVATE_KEY"`
	TTL        time.Duration `env:"WANDERLIST_INVITE_GRANT_TTL"         envDefault:"72h"`
}

// GrantConfig defines how invitation grants are verified.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// SignerConfig defines how invitation grants are issued.
type SignerConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PrivateKey
	TTL      time.Duration
	Now      func() time.Time
}

// GrantExpectation defines the expected identity for an invitation grant.
type GrantExpectation struct {
	TripID   string
	MemberID string
	UserID   string
}

// GrantClaims captures validated invitation grant claims.
type GrantClaims struct {
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string
	TripID    string
	MemberID  string
	UserID    string
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
}

// LoadGrantConfigFromEnv reads grant verification configuration.
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return GrantConfig{}, fmt.Errorf("parse invite grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return GrantConfig{}, fmt.Errorf("%s is required", EnvGrantIssuer)
	}
	if audience == "" {
		return GrantConfig{}, fmt.Errorf("%s is required", EnvGrantAudience)
	}
	if publicKey == "" {
		return GrantConfig{}, fmt.Errorf("%s is required", EnvGrantPublicKey)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return GrantConfig{}, fmt.Errorf("decode invite grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return GrantConfig{}, fmt.Errorf("invite grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// LoadSignerConfigFromEnv reads grant issuance configuration.
func LoadSignerConfigFromEnv(now func() time.Time) (SignerConfig, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return SignerConfig{}, fmt.Errorf("parse invite grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if issuer == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvGrantIssuer)
	}
	if audience == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvGrantAudience)
	}
	if privateKey == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvGrantPrivateKey)
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return SignerConfig{}, fmt.Errorf("decode invite grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return SignerConfig{}, fmt.Errorf("invite grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return SignerConfig{}, fmt.Errorf("invite grant ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return SignerConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PrivateKey(keyBytes),
		TTL:      raw.TTL,
		Now:      now,
	}, nil
}

// IssueGrant signs a grant token binding a pending invitation to a user.
// jwtID must be unique per grant; callers use the member ID.
func IssueGrant(cfg SignerConfig, subject GrantExpectation, jwtID string) (string, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PrivateKeySize {
		return "", errors.New("invite grant signer is not configured")
	}
	if cfg.TTL <= 0 {
		return "", errors.New("invite grant ttl must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if strings.TrimSpace(jwtID) == "" {
		return "", errors.New("invite grant jti is required")
	}

	now := cfg.Now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        jwtID,
		},
		TripID:   subject.TripID,
		MemberID: subject.MemberID,
		UserID:   subject.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign invite grant: %w", err)
	}
	return signed, nil
}

// ValidateGrant verifies a grant token and validates expected claims.
func ValidateGrant(grant string, expected GrantExpectation, cfg GrantConfig) (GrantClaims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return GrantClaims{}, apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return GrantClaims{}, errors.New("invite grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return GrantClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeInviteGrantMismatch,
			"invite grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeInviteGrantMismatch,
			"invite grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}

	if parsed.ID == "" {
		return GrantClaims{}, apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return GrantClaims{}, apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return GrantClaims{}, apperrors.New(apperrors.CodeInviteGrantExpired, "invite grant is expired")
	}
	if parsed.NotBefore != nil {
		nbf := parsed.NotBefore.Time.UTC()
		if now.Before(nbf) {
			return GrantClaims{}, apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant not active yet")
		}
	}

	if strings.TrimSpace(parsed.TripID) == "" || parsed.TripID != expected.TripID {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeInviteGrantMismatch,
			"invite grant trip mismatch",
			map[string]string{"Field": "trip_id"},
		)
	}
	if strings.TrimSpace(parsed.MemberID) == "" || parsed.MemberID != expected.MemberID {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeInviteGrantMismatch,
			"invite grant member mismatch",
			map[string]string{"Field": "member_id"},
		)
	}
	if strings.TrimSpace(parsed.UserID) == "" || parsed.UserID != expected.UserID {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeInviteGrantMismatch,
			"invite grant user mismatch",
			map[string]string{"Field": "user_id"},
		)
	}

	claims := GrantClaims{
		Issuer:    parsed.Issuer,
		Audience:  []string(parsed.Audience),
		ExpiresAt: exp,
		JWTID:     parsed.ID,
		TripID:    parsed.TripID,
		MemberID:  parsed.MemberID,
		UserID:    parsed.UserID,
	}
	if parsed.NotBefore != nil {
		claims.NotBefore = parsed.NotBefore.Time.UTC()
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeInviteGrantInvalid, "invite grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
