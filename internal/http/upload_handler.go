package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/services"
)

type UploadHandler struct {
	media services.MediaStore
	log   *zap.Logger
}

func NewUploadHandler(media services.MediaStore, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		media: media,
		log:   log,
	}
}

// Upload stores one file from the "file" form field and returns its reference.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	key := lib.UploadKey(time.Now(), header.Filename)
	ref, err := h.media.Upload(c.Request.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.log.Error("error uploading file", zap.Error(err))
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"url": ref})
}
