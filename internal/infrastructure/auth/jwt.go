package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"licentia/internal/shared/biztime"
)

// SessionClaims bind an admin token to one rotating session identifier.
// When the session rotates, tokens minted for the old identifier stop
// resolving.
type SessionClaims struct {
	AdminID   uint   `json:"admin_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type SessionTokenService struct {
	secret     []byte
	expMinutes int
}

func NewSessionTokenService(secret string, expMinutes int) *SessionTokenService {
	return &SessionTokenService{
		secret:     []byte(secret),
		expMinutes: expMinutes,
	}
}

// Mint signs a token for an admin session.
func (s *SessionTokenService) Mint(adminID uint, sessionID string) (string, error) {
	now := biztime.NowUTC()
	claims := &SessionClaims{
		AdminID:   adminID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (s *SessionTokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
