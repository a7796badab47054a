package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the session token claims. The user id travels in the standard subject claim.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// HMACVerifier validates HS256 session tokens signed with a shared secret.
type HMACVerifier struct {
	key []byte
}

// NewHMACVerifier creates a verifier for tokens signed with secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{key: []byte(secret)}
}

// GenerateToken issues a session token for the given user. It is used by tests and local tooling;
// in production sessions come from the identity provider.
func GenerateToken(secret string, session Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses and validates a token string.
func (v *HMACVerifier) Verify(_ context.Context, tokenStr string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Session{UserID: claims.Subject, Username: claims.Username}, nil
}
