package http

import (
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/middleware"
	"github.com/pulsefeed-app/backend/internal/services"
)

type FeedHandler struct {
	feed services.FeedService
	log  *zap.Logger
}

func NewFeedHandler(feed services.FeedService, log *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feed: feed,
		log:  log,
	}
}

// Get serves one feed page. page and limit default when absent but malformed
// values are rejected, never silently coerced. The viewer, when a valid token
// is present, gets isLiked/isUnliked annotations.
func (h *FeedHandler) Get(c *gin.Context) {
	query := services.FeedQuery{
		ViewerID: middleware.ViewerUUID(c),
		Page:     lib.DefaultPage,
		Limit:    lib.DefaultLimit,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		query.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		query.Limit = limit
	}
	if raw := c.Query("userId"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		query.AuthorID = &authorID
	}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		query.CategoryID = categoryID
	}

	items, err := h.feed.GetFeed(c.Request.Context(), query)
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error assembling feed", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, items)
}
