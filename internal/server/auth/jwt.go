// Package auth issues and validates bearer tokens and hashes user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when Issue is called without a positive ttl.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims is the JWT payload: the registered claims plus the identity of the
// authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Identity is what a valid token proves about its bearer.
type Identity struct {
	UserID   string
	Username string
}

// TokenService signs HS256 tokens with a server-held secret.
// There is no revocation list: a token stays valid until it expires.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a TokenService. A non-positive defaultTTL falls back
// to DefaultTokenTTL.
func NewTokenService(secret []byte, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenService{secret: secret, defaultTTL: defaultTTL, now: time.Now}
}

// Issue returns a signed token for id that expires after ttl (or the default
// ttl when ttl <= 0), together with the absolute expiry.
func (s *TokenService) Issue(id Identity, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   id.UserID,
		Username: id.Username,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks the signature and expiry of tokenString. It returns
// common.ErrTokenExpired for expired tokens and common.ErrInvalidToken for
// every other failure.
func (s *TokenService) Validate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
