// Package auth issues and verifies the HS256 bearer tokens handed out on login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by an access token. Subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and validates access tokens with a shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	secretKey        []byte
	issuer           string
	validityDuration time.Duration
	now              func() time.Time
}

// NewTokenManager builds a manager for the given secret, issuer and lifetime.
func NewTokenManager(secretKey []byte, issuer string, validityDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:        secretKey,
		issuer:           issuer,
		validityDuration: validityDuration,
		now:              time.Now,
	}
}

// Issue signs a token for userID and email that expires after the configured
// validity duration.
func (m *TokenManager) Issue(userID, email string) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify parses tokenString and returns its claims. Expired tokens yield
// common.ErrTokenExpired; every other failure yields common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
