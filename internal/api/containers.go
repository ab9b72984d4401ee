package api

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// maxNameLength bounds container and item names.
const maxNameLength = 255

// ContainersHandler handles container endpoints.
type ContainersHandler struct {
	Store *store.Store
	Log   *zap.SugaredLogger
}

type createContainerRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/containers.
func (h *ContainersHandler) List(c *gin.Context) {
	containers, err := h.Store.ListContainers(c.Request.Context(), tenant(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, containers)
}

// Create handles POST /api/containers.
func (h *ContainersHandler) Create(c *gin.Context) {
	var req createContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	container := &model.Container{TenantID: tenant(c), Name: name}
	if err := h.Store.CreateContainer(c.Request.Context(), container); err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("container created", "user", GetClaims(c).Username, "container", container.Name)
	c.JSON(http.StatusCreated, container)
}

// Delete handles DELETE /api/containers/:id. Items in the container keep
// their reference to it.
func (h *ContainersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteContainer(c.Request.Context(), tenant(c), id); err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("container deleted", "user", GetClaims(c).Username, "id", id)
	c.Status(http.StatusNoContent)
}

// validateName trims a container or item name and checks its length.
func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name required", model.ErrValidationFailed)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", model.ErrValidationFailed, maxNameLength)
	}
	return name, nil
}

// pathID parses the :id path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
