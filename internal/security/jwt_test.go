package security

import (
	"strings"
	"testing"
	"time"
)

func newTestManager() *JWTManager {
	return NewJWTManager("gym-crm", "gym-clients", "access-secret", "refresh-secret")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	gym := int64(4)
	raw, err := m.SignAccessToken(7, "frontdesk", "RECEPTIONIST", &gym, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "7" || claims.Username != "frontdesk" || claims.Role != "RECEPTIONIST" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.GymID == nil || *claims.GymID != 4 {
		t.Fatalf("gymId = %v, want 4", claims.GymID)
	}
}

func TestAccessTokenWithoutGymScope(t *testing.T) {
	m := newTestManager()
	raw, err := m.SignAccessToken(1, "root", "ADMIN", nil, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.GymID != nil {
		t.Fatalf("gymId = %v, want nil", claims.GymID)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	m := newTestManager()
	raw, err := m.SignRefreshToken(7, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseAccessToken(raw); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := m.ParseRefreshToken(raw); err != nil {
		t.Fatalf("refresh token rejected by refresh parser: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager()
	raw, err := m.SignAccessToken(7, "frontdesk", "RECEPTIONIST", nil, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseAccessToken(raw); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	other := NewJWTManager("someone-else", "gym-clients", "access-secret", "refresh-secret")
	raw, err := other.SignAccessToken(7, "frontdesk", "RECEPTIONIST", nil, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newTestManager().ParseAccessToken(raw); err == nil {
		t.Fatal("token from another issuer accepted")
	}
}
