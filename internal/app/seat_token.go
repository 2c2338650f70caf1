package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatClaims bind a user to a seat at one table.
type SeatClaims struct {
	Table string `json:"tbl"`
	Seat  int    `json:"seat"`
	jwt.StandardClaims
}

// SeatTokenService issues and checks the HS256 tokens players present to
// reclaim their seat after a reconnect.
type SeatTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSeatTokenService(secret string, ttl time.Duration) *SeatTokenService {
	return &SeatTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID sitting in seat at table.
func (s *SeatTokenService) Issue(table, userID string, seat int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("seat token service is nil")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("seat token secret is not configured")
	}
	if userID == "" || table == "" {
		return "", fmt.Errorf("user and table are required")
	}

	now := s.now()
	claims := SeatClaims{
		Table: table,
		Seat:  seat,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of a token and that it was issued for table.
func (s *SeatTokenService) Verify(table, tokenString string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeatToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSeatToken
	}
	if claims.Table != table {
		return nil, fmt.Errorf("%w: issued for table %s", ErrInvalidSeatToken, claims.Table)
	}
	return claims, nil
}
