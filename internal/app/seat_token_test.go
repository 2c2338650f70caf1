package app

import (
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	svc := NewSeatTokenService("test-secret", time.Hour)
	token, err := svc.Issue("table-1", "user123", 2)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	claims, err := svc.Verify("table-1", token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if claims.Subject != "user123" || claims.Seat != 2 || claims.Table != "table-1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestSeatTokenRejections(t *testing.T) {
	svc := NewSeatTokenService("test-secret", time.Hour)
	token, err := svc.Issue("table-1", "user123", 0)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	expired := NewSeatTokenService("test-secret", -time.Minute)
	expiredToken, err := expired.Issue("table-1", "user123", 0)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SeatClaims{Table: "table-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name  string
		svc   *SeatTokenService
		table string
		token string
	}{
		{name: "other table", svc: svc, table: "table-2", token: token},
		{name: "wrong secret", svc: NewSeatTokenService("other", time.Hour), table: "table-1", token: token},
		{name: "expired", svc: svc, table: "table-1", token: expiredToken},
		{name: "unsigned", svc: svc, table: "table-1", token: unsigned},
		{name: "garbage", svc: svc, table: "table-1", token: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Verify(tt.table, tt.token); !errors.Is(err, ErrInvalidSeatToken) {
				t.Fatalf("Verify() error = %v, want ErrInvalidSeatToken", err)
			}
		})
	}
}

func TestSeatTokenRequiresConfig(t *testing.T) {
	if _, err := NewSeatTokenService("", time.Hour).Issue("t", "u", 0); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewSeatTokenService("s", time.Hour).Issue("t", "", 0); err == nil {
		t.Fatal("expected error for missing user")
	}
}
