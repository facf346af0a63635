package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims models.TokenClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewAuthService("test-secret")
	valid := models.TokenClaims{
		UserID:   "alice",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: signToken(t, "test-secret", jwt.SigningMethodHS256, valid)},
		{name: "wrong secret", token: signToken(t, "other", jwt.SigningMethodHS256, valid), wantErr: true},
		{name: "expired", token: signToken(t, "test-secret", jwt.SigningMethodHS256, expired), wantErr: true},
		{name: "no expiry", token: signToken(t, "test-secret", jwt.SigningMethodHS256, noExpiry), wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token)
			if tt.wantErr {
				if !errors.Is(err, pkg.ErrUnauthorized) {
					t.Errorf("err = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAccessToken: %v", err)
			}
			if claims.UserID != "alice" {
				t.Errorf("UserID = %q", claims.UserID)
			}
		})
	}
}
