package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mamstar",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:      userID,
		Email:       "staff@mamstar.com",
		Role:        enums.RoleStaff,
		Permissions: []enums.Permission{enums.PermissionProducts},
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s got %s", userID, claims.UserID)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject to carry the user id")
	}
	if !claims.Allows(enums.PermissionProducts) {
		t.Fatalf("expected products permission")
	}
	if claims.Allows(enums.PermissionOrders) {
		t.Fatalf("staff without orders permission must be denied")
	}
}

func TestAdminBypassesPermissions(t *testing.T) {
	claims := &AccessTokenClaims{Role: enums.RoleAdmin}
	if !claims.Allows(enums.PermissionSMS) {
		t.Fatalf("admin should be allowed everything")
	}
	var nilClaims *AccessTokenClaims
	if nilClaims.Allows(enums.PermissionDashboard) {
		t.Fatalf("nil claims must deny")
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleAdmin}

	t.Run("expired", func(t *testing.T) {
		token, err := MintAccessToken(cfg, now.Add(-2*time.Hour), payload)
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		if _, err := ParseAccessToken(cfg, token); err == nil {
			t.Fatalf("expected expired token to fail")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := MintAccessToken(cfg, now, payload)
		other := cfg
		other.Secret = "other"
		if _, err := ParseAccessToken(other, token); err == nil {
			t.Fatalf("expected signature failure")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, _ := MintAccessToken(cfg, now, payload)
		other := cfg
		other.Issuer = "someone-else"
		if _, err := ParseAccessToken(other, token); err == nil {
			t.Fatalf("expected issuer failure")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseAccessToken(cfg, strings.Repeat("x", 20)); err == nil {
			t.Fatalf("expected parse failure")
		}
	})
}

func TestMintAccessTokenValidatesPayload(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.RoleAdmin}); err == nil {
		t.Fatalf("expected missing user id to fail")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New(), Role: "owner"}); err == nil {
		t.Fatalf("expected invalid role to fail")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        enums.RoleStaff,
		Permissions: []enums.Permission{"billing"},
	}); err == nil {
		t.Fatalf("expected invalid permission to fail")
	}
	if _, err := MintAccessToken(config.JWTConfig{}, now, AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleAdmin}); err == nil {
		t.Fatalf("expected missing secret to fail")
	}
}
