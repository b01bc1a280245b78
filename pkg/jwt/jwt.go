package jwt

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrWrongType    = errors.New("unexpected token type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenType    string `json:"type"`
	TokenVersion string `json:"token_version"`
	jwt.RegisteredClaims
}

// Config controls signing and token lifetimes.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var (
	mu  sync.RWMutex
	cfg = Config{
		Issuer:     "go-catalog-api",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
)

// Configure replaces the package configuration. Zero fields keep their current value.
func Configure(c Config) {
	mu.Lock()
	defer mu.Unlock()
	if c.Secret != "" {
		cfg.Secret = c.Secret
	}
	if c.Issuer != "" {
		cfg.Issuer = c.Issuer
	}
	if c.AccessTTL > 0 {
		cfg.AccessTTL = c.AccessTTL
	}
	if c.RefreshTTL > 0 {
		cfg.RefreshTTL = c.RefreshTTL
	}
}

func current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetSecretKey returns the configured secret, then JWT_SECRET, then a default
func GetSecretKey() []byte {
	if secret := current().Secret; secret != "" {
		return []byte(secret)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-super-secret-key-change-in-production"
	}
	return []byte(secret)
}

// GenerateToken creates a short-lived access token for a user
func GenerateToken(userID uint, username, role, tokenVersion string) (string, error) {
	return generate(TokenTypeAccess, current().AccessTTL, userID, username, role, tokenVersion)
}

// GenerateRefreshToken creates a long-lived refresh token for a user
func GenerateRefreshToken(userID uint, username, role, tokenVersion string) (string, error) {
	return generate(TokenTypeRefresh, current().RefreshTTL, userID, username, role, tokenVersion)
}

func generate(tokenType string, ttl time.Duration, userID uint, username, role, tokenVersion string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		Username:     username,
		Role:         role,
		TokenType:    tokenType,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    current().Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a JWT token of any type
func ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ValidateTokenOfType validates the token and checks its type claim
func ValidateTokenOfType(tokenString, tokenType string) (*Claims, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongType
	}
	return claims, nil
}
