package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
)

const claimsKey = "claims"

// revocationTimeout bounds the revocation lookup done for every request.
const revocationTimeout = 2 * time.Second

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware validates the bearer token, rejects revoked tokens and stores
// the claims on the request.
func AuthMiddleware(secret string, revoked RevocationChecker, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			jsonError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			jsonError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), revocationTimeout)
		isRevoked, err := revoked.IsTokenRevoked(ctx, claims.ID)
		cancel()
		if err != nil {
			respondErr(c, log, err)
			return
		}
		if isRevoked {
			jsonError(c, http.StatusUnauthorized, "token revoked")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims stored by AuthMiddleware.
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// tenant returns the tenant of the authenticated caller.
func tenant(c *gin.Context) model.TenantID {
	return GetClaims(c).TenantID
}

// LoggingMiddleware logs each request with method, path, status and duration.
func LoggingMiddleware(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		}
		if claims := GetClaims(c); claims != nil {
			fields = append(fields, "user", claims.Username)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warnw("request", fields...)
			return
		}
		log.Infow("request", fields...)
	}
}
