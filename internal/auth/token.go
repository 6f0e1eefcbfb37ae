package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingCredential means no Authorization header was presented.
	ErrMissingCredential = errors.New("missing credential")
	// ErrMalformedCredential means the header value is not "Bearer <token>".
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidToken means the token is forged, corrupt, or unparseable.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the token's signature is fine but its validity
	// window has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims defines the JWT claims structure.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the signed bearer tokens used by every
// protected endpoint. The secret is injected at startup and read-only after.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// token validity window.
func NewTokenManager(secret string, validity time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), validity: validity}
}

// Generate creates a new signed token for the given subject email.
func (tm *TokenManager) Generate(email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.validity)),
			// A fresh nonce keeps two tokens minted for the same subject
			// within the same second distinct.
			ID: uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies a token's signature and expiry and returns its claims.
// An expired-but-authentic token yields ErrExpiredToken; anything forged,
// corrupt, or structurally invalid yields ErrInvalidToken.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
