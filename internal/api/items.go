package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/blob"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// multipartOverhead is the allowance for form boundaries and headers on top of
// the image itself.
const multipartOverhead = 64 << 10

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Store  *store.Store
	Bucket blob.Bucket
	Log    *zap.SugaredLogger
}

type createItemRequest struct {
	Name        string     `json:"name"`
	CategoryID  *uuid.UUID `json:"category_id"`
	ContainerID *uuid.UUID `json:"container_id"`
	IsIn        *bool      `json:"is_in"`
}

type setStatusRequest struct {
	IsIn *bool `json:"is_in"`
}

// imageResponse is an image with a time-limited URL for each variant.
type imageResponse struct {
	model.Image
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

type itemResponse struct {
	*model.Item
	Images []imageResponse `json:"images"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	item := &model.Item{
		TenantID:    tenant(c),
		Name:        name,
		CategoryID:  req.CategoryID,
		ContainerID: req.ContainerID,
		IsIn:        true,
	}
	if req.IsIn != nil {
		item.IsIn = *req.IsIn
	}

	if err := h.Store.CreateItem(c.Request.Context(), item); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			jsonError(c, http.StatusBadRequest, "referenced category or container does not exist")
			return
		}
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("item created", "user", GetClaims(c).Username, "item", item.Name)
	c.JSON(http.StatusCreated, item)
}

// Get handles GET /api/items/:id.
func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	item, err := h.Store.GetItem(ctx, tenant(c), id)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	images, err := h.Store.ListImages(ctx, tenant(c), model.EntityRef{Type: model.EntityItem, ID: id})
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	resp := itemResponse{Item: item, Images: make([]imageResponse, 0, len(images))}
	for _, img := range images {
		out := imageResponse{Image: img}
		if out.URL, err = h.Bucket.ResolveThumbnailURL(ctx, img.StoragePath); err != nil {
			respondErr(c, h.Log, err)
			return
		}
		if img.ThumbPath != nil {
			if out.ThumbURL, err = h.Bucket.ResolveThumbnailURL(ctx, *img.ThumbPath); err != nil {
				respondErr(c, h.Log, err)
				return
			}
		}
		resp.Images = append(resp.Images, out)
	}

	c.JSON(http.StatusOK, resp)
}

// SetStatus handles PUT /api/items/:id/status.
func (h *ItemsHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsIn == nil {
		jsonError(c, http.StatusBadRequest, "is_in required")
		return
	}

	if err := h.Store.SetItemIn(c.Request.Context(), tenant(c), id, *req.IsIn); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_in": *req.IsIn})
}

// UploadImage handles POST /api/items/:id/images. The upload is stored as a
// full-size and a thumbnail variant and appended to the item's images.
func (h *ItemsHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tid := tenant(c)
	if _, err := h.Store.GetItem(ctx, tid, id); err != nil {
		respondErr(c, h.Log, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadSize+multipartOverhead)
	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(c, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		jsonError(c, http.StatusBadRequest, "image file required")
		return
	}
	file, err := header.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	ref := model.EntityRef{Type: model.EntityItem, ID: id}
	fileID := uuid.New()
	fullKey := blob.ImageKey(tid, ref, fileID, blob.VariantFull)
	thumbKey := blob.ImageKey(tid, ref, fileID, blob.VariantThumb)

	if err := h.Bucket.Put(ctx, fullKey, bytes.NewReader(processed.Full), processed.MIME); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	if err := h.Bucket.Put(ctx, thumbKey, bytes.NewReader(processed.Thumb), processed.MIME); err != nil {
		h.removeObjects(c, fullKey)
		respondErr(c, h.Log, err)
		return
	}

	img := &model.Image{
		TenantID:    tid,
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		StoragePath: fullKey,
		ThumbPath:   &thumbKey,
		MIME:        processed.MIME,
	}
	if err := h.Store.AddImage(ctx, img); err != nil {
		h.removeObjects(c, fullKey, thumbKey)
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("image uploaded", "user", GetClaims(c).Username, "item", id, "order", img.DisplayOrder)
	c.JSON(http.StatusCreated, img)
}

// removeObjects deletes stored objects whose image row could not be written.
func (h *ItemsHandler) removeObjects(c *gin.Context, keys ...string) {
	for _, key := range keys {
		if err := h.Bucket.Delete(c.Request.Context(), key); err != nil && !errors.Is(err, model.ErrNotFound) {
			h.Log.Warnw("failed to remove orphaned object", "key", key, "error", err)
		}
	}
}
