package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// Token audiences. A token is only accepted where its audience is expected.
const (
	audienceAPI   = "api"
	audienceFiles = "files"
)

// Claims represents the JWT claims of an API session.
type Claims struct {
	TenantID uuid.UUID `json:"tid"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// FileClaims authorize reading one stored file.
type FileClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// TokenExpiry is the default token lifetime.
const TokenExpiry = 7 * 24 * time.Hour

// GenerateToken creates a new session JWT for a user with a unique JTI.
func GenerateToken(secret string, user *model.User) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	claims := Claims{
		TenantID: user.Tenant(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{audienceAPI},
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(secret, claims)
}

// ValidateToken parses and validates a session JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(secret, tokenStr, audienceAPI, claims); err != nil {
		return nil, err
	}
	if claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("invalid token: missing tenant")
	}
	return claims, nil
}

// GenerateFileToken creates a short-lived JWT that grants read access to the
// stored file at key.
func GenerateFileToken(secret, key string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := FileClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceFiles},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(secret, claims)
}

// ValidateFileToken checks that tokenStr is a valid file token for key.
func ValidateFileToken(secret, tokenStr, key string) error {
	claims := &FileClaims{}
	if err := parse(secret, tokenStr, audienceFiles, claims); err != nil {
		return err
	}
	if claims.Key != key {
		return fmt.Errorf("invalid token: issued for another file")
	}
	return nil
}

func sign(secret string, claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func parse(secret, tokenStr, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
