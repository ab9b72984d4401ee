package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	Log       *zap.SugaredLogger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.Store.GetUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, model.ErrNotFound) {
		jsonError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.Log.Warnw("login failed", "username", req.Username, "remote", c.ClientIP())
		jsonError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("user logged in", "user", user.Username)
	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := GetClaims(c)

	expiresAt := time.Now().Add(auth.TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.Store.RevokeToken(c.Request.Context(), claims.ID, expiresAt); err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("user logged out", "user", claims.Username)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := GetClaims(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(c, http.StatusBadRequest, "current and new password required")
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUser(ctx, claims.TenantID)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		jsonError(c, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	if err := h.Store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("user changed own password", "user", claims.Username)
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
