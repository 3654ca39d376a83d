package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/taskloop/task-service/internal/auth/service TokenGenerator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	autherror "github.com/taskloop/task-service/internal/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenGenerator interface {
	GeneratePair(userID int64) (accessToken, refreshToken string, refreshExpiresAt time.Time, err error)
	Verify(tokenString, expectedType string) (*TokenClaims, error)
	Hash(raw string) string
	AccessTokenExpiry() time.Duration
	RefreshTokenExpiry() time.Duration
}

// TokenService signs and verifies both token types with a single symmetric
// secret; the "type" claim keeps them from being interchangeable.
type TokenService struct {
	secret        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"type"`
}

func NewTokenService(secret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		secret:        secret,
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) sign(userID int64, tokenType string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)

	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// GeneratePair mints a fresh access+refresh pair for userID. The jti claim
// makes every issuance unique even within one clock tick.
func (ts *TokenService) GeneratePair(userID int64) (string, string, time.Time, error) {
	accessToken, _, err := ts.sign(userID, TokenTypeAccess, ts.accessExpiry)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshToken, refreshExpiresAt, err := ts.sign(userID, TokenTypeRefresh, ts.refreshExpiry)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, refreshExpiresAt, nil
}

// Verify checks signature, expiry, and the type discriminator, in that order.
func (ts *TokenService) Verify(tokenString, expectedType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherror.ErrInvalidToken
		}
		return []byte(ts.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return nil, autherror.ErrWrongTokenType
	}

	return claims, nil
}

// Hash is the one-way function keying the refresh-token ledger. The raw token
// is never persisted.
func (ts *TokenService) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (ts *TokenService) AccessTokenExpiry() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) RefreshTokenExpiry() time.Duration {
	return ts.refreshExpiry
}
