// Package auth issues and verifies the HMAC tokens that gate the spectator
// WebSocket.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expired, malformed. Callers get no finer detail.
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 12 * time.Hour

// Claims is the spectator token payload.
type Claims struct {
	SpectatorID string `json:"spectator_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies spectator tokens with a shared secret.
type JWTManager struct {
	secret []byte
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// GenerateToken issues a token for a spectator session.
func (m *JWTManager) GenerateToken(spectatorID string) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SpectatorID: spectatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   spectatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}).SignedString(m.secret)
}

// ValidateToken verifies a token string and returns its claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (m *JWTManager) keyFunc(*jwt.Token) (any, error) {
	return m.secret, nil
}
