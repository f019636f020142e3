// Package crypto mints and verifies confirmation tokens.
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ConfirmClaims binds a confirmation token to the exact pending transfer it
// was minted for, so a stale or cross-session confirm cannot match.
type ConfirmClaims struct {
	SessionID string `json:"sid"`
	PendingID string `json:"pid"`
	jwt.RegisteredClaims
}

// TokenManager handles confirmation token creation and verification.
type TokenManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration
}

// NewTokenManager creates a token manager from the master secret. A zero ttl
// means minted tokens never expire.
func NewTokenManager(masterSecret string, ttl time.Duration) (*TokenManager, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("master secret is required")
	}

	// Derive an Ed25519 key from the master secret.
	seed := sha256.Sum256([]byte(masterSecret))
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return &TokenManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
	}, nil
}

// Mint creates a confirmation token for a pending transfer.
func (m *TokenManager) Mint(sessionID, pendingID string) (string, error) {
	now := time.Now()
	claims := ConfirmClaims{
		SessionID: sessionID,
		PendingID: pendingID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "compass-orchestrator",
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(m.privateKey)
}

// Verify parses a confirmation token. Tampered or expired tokens fail.
func (m *TokenManager) Verify(tokenString string) (*ConfirmClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ConfirmClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*ConfirmClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
