package delivery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	bgdomain "quotepush-backend/internal/background/domain"
	"quotepush-backend/internal/background/repository"

	"github.com/gin-gonic/gin"
)

// Uploads larger than this are rejected before reading the file into memory.
const maxUploadBytes = 10 << 20

// BackgroundHandler serves the background image routes.
type BackgroundHandler struct {
	backgroundRepo repository.BackgroundRepository
}

// NewBackgroundHandler creates a new instance of BackgroundHandler
func NewBackgroundHandler(backgroundRepo repository.BackgroundRepository) *BackgroundHandler {
	return &BackgroundHandler{backgroundRepo: backgroundRepo}
}

// UploadBackground handles POST /api/backgrounds
func (h *BackgroundHandler) UploadBackground(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpeg, png and webp images are accepted"})
		return
	}

	background := &bgdomain.Background{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Clean:       c.PostForm("clean") == "true",
		Size:        int64(len(data)),
		Data:        data,
	}
	if err := h.backgroundRepo.Create(background); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save background"})
		return
	}

	c.JSON(http.StatusCreated, background)
}

// ListBackgrounds handles GET /api/backgrounds
func (h *BackgroundHandler) ListBackgrounds(c *gin.Context) {
	backgrounds, err := h.backgroundRepo.FindAllMetadata()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list backgrounds"})
		return
	}
	c.JSON(http.StatusOK, backgrounds)
}

// ListCleanBackgrounds handles GET /api/backgrounds/clean
func (h *BackgroundHandler) ListCleanBackgrounds(c *gin.Context) {
	h.listByClean(c, true)
}

// ListNotCleanBackgrounds handles GET /api/backgrounds/notClean
func (h *BackgroundHandler) ListNotCleanBackgrounds(c *gin.Context) {
	h.listByClean(c, false)
}

func (h *BackgroundHandler) listByClean(c *gin.Context, clean bool) {
	backgrounds, err := h.backgroundRepo.FindByCleanMetadata(clean)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list backgrounds"})
		return
	}
	c.JSON(http.StatusOK, backgrounds)
}

// MarkBackgroundClean handles PATCH /api/backgrounds/:id/clean
func (h *BackgroundHandler) MarkBackgroundClean(c *gin.Context) {
	var body struct {
		Clean *bool `json:"clean" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clean flag is required"})
		return
	}

	if err := h.backgroundRepo.UpdateClean(c.Param("id"), *body.Clean); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "background not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update background"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "clean": *body.Clean})
}

// GetBackground handles GET /api/backgrounds/:id and streams the image bytes.
func (h *BackgroundHandler) GetBackground(c *gin.Context) {
	background, err := h.backgroundRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load background"})
		return
	}
	if background == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "background not found"})
		return
	}

	c.Header("Content-Length", strconv.Itoa(len(background.Data)))
	c.Data(http.StatusOK, background.ContentType, background.Data)
}

// DeleteBackground handles DELETE /api/backgrounds/:id
func (h *BackgroundHandler) DeleteBackground(c *gin.Context) {
	background, err := h.backgroundRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load background"})
		return
	}
	if background == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "background not found"})
		return
	}

	if err := h.backgroundRepo.Delete(background.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete background"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "background deleted"})
}
