package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/model"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// jsonError aborts the request with a JSON error body.
func jsonError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// respondErr maps err onto an HTTP status. Validation and conflict messages
// are shown to the caller; anything else is logged and replaced by a generic
// message.
func respondErr(c *gin.Context, log *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, model.ErrValidationFailed):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrConflict):
		jsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrNotFound):
		jsonError(c, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrStoreUnavailable):
		log.Warnw("store unavailable", "path", c.FullPath(), "error", err)
		c.Header("Retry-After", "1")
		jsonError(c, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		log.Errorw("request failed", "path", c.FullPath(), "error", err)
		jsonError(c, http.StatusInternalServerError, "internal error")
	}
}
