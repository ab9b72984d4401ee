package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/blob"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/model"
)

// FilesHandler streams locally stored objects to holders of a signed link.
type FilesHandler struct {
	Files *blob.Local
	Log   *zap.SugaredLogger
}

// Get handles GET /api/files/*key?token=.
func (h *FilesHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.Files.VerifyToken(key, c.Query("token")); err != nil {
		jsonError(c, http.StatusForbidden, "invalid or expired link")
		return
	}

	rc, err := h.Files.Open(c.Request.Context(), key)
	if errors.Is(err, model.ErrNotFound) {
		jsonError(c, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, -1, imaging.OutputMIME, rc, nil)
}
