package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/client"
	"github.com/pulsefeed-app/backend/internal/lib"
)

type VideoHandler struct {
	probe *client.YtDlpClient
	log   *zap.Logger
}

func NewVideoHandler(probe *client.YtDlpClient, log *zap.Logger) *VideoHandler {
	return &VideoHandler{
		probe: probe,
		log:   log,
	}
}

type videoInfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// Info probes a video URL for its available formats. When the tool answers
// with output we cannot decode, the raw output is echoed back as a debugging
// aid; timeouts and tool failures answer 502 with no upstream detail.
func (h *VideoHandler) Info(c *gin.Context) {
	var request videoInfoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.probe.Inspect(c.Request.Context(), request.URL)
	if err != nil {
		var parseErr *client.OutputParseError
		if errors.As(err, &parseErr) {
			h.log.Error("undecodable video probe output", zap.Error(parseErr.Reason))
			c.JSON(nethttp.StatusInternalServerError, gin.H{
				"error":     "could not parse video metadata",
				"rawOutput": parseErr.RawOutput,
			})
			return
		}
		if !lib.IsClientError(err) {
			h.log.Error("error probing video", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, info)
}
