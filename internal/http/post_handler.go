package http

import (
	"context"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/middleware"
	"github.com/pulsefeed-app/backend/internal/services"
)

const maxPostImages = 9

type PostHandler struct {
	posts services.PostService
	media services.MediaStore
	log   *zap.Logger
}

func NewPostHandler(posts services.PostService, media services.MediaStore, log *zap.Logger) *PostHandler {
	return &PostHandler{
		posts: posts,
		media: media,
		log:   log,
	}
}

// Create accepts a multipart post: a textContent field, up to nine image
// parts and at most one video part, classified by part content type. Media is
// uploaded before the post row is written, so a failed insert can at worst
// leave orphaned objects, never a post pointing at missing media.
func (h *PostHandler) Create(c *gin.Context) {
	authorID, ok := h.ownAuthor(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "expected multipart form"})
		return
	}

	content := ""
	if values := form.Value["textContent"]; len(values) > 0 {
		content = values[0]
	}

	var images []*multipart.FileHeader
	var video *multipart.FileHeader
	for _, headers := range form.File {
		for _, header := range headers {
			contentType := header.Header.Get("Content-Type")
			switch {
			case strings.HasPrefix(contentType, "image/"):
				images = append(images, header)
			case strings.HasPrefix(contentType, "video/"):
				if video != nil {
					c.JSON(nethttp.StatusBadRequest, gin.H{"error": "at most one video per post"})
					return
				}
				video = header
			default:
				c.JSON(nethttp.StatusBadRequest, gin.H{
					"error": fmt.Sprintf("unsupported part type %q", contentType),
				})
				return
			}
		}
	}
	if len(images) > maxPostImages {
		c.JSON(nethttp.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("at most %d images per post", maxPostImages),
		})
		return
	}

	input := services.CreatePostInput{Content: content}

	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		input.CategoryID = &categoryID
	}

	for _, header := range images {
		ref, err := h.uploadPart(c, header)
		if err != nil {
			h.log.Error("error uploading post image", zap.Error(err))
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "media upload failed"})
			return
		}
		input.ImageRefs = append(input.ImageRefs, ref)
	}
	if video != nil {
		ref, err := h.uploadPart(c, video)
		if err != nil {
			h.log.Error("error uploading post video", zap.Error(err))
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "media upload failed"})
			return
		}
		input.VideoRef = &ref
	}

	post, err := h.posts.CreatePost(c.Request.Context(), authorID, input)
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error creating post", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"id":      post.ID,
		"success": true,
	})
}

func (h *PostHandler) Like(c *gin.Context) {
	h.react(c, h.posts.Like)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	h.react(c, h.posts.Unlike)
}

func (h *PostHandler) Dislike(c *gin.Context) {
	h.react(c, h.posts.Dislike)
}

func (h *PostHandler) Undislike(c *gin.Context) {
	h.react(c, h.posts.Undislike)
}

// react runs one ledger operation for the authenticated user. A repeat of the
// current reaction state answers 409 with success=false so clients can settle
// their optimistic UI without treating it as a hard failure.
func (h *PostHandler) react(c *gin.Context, operation func(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	err = operation(c.Request.Context(), userID, postID)
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error applying reaction", zap.Error(err))
		}
		c.JSON(statusFor(err), gin.H{"success": false})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"success": true})
}

func (h *PostHandler) uploadPart(c *gin.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := lib.UploadKey(time.Now(), header.Filename)
	return h.media.Upload(c.Request.Context(), key, header.Header.Get("Content-Type"), file)
}

func (h *PostHandler) ownAuthor(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}

	caller, err := middleware.GetUserUUID(c)
	if err != nil || caller != id {
		c.JSON(nethttp.StatusForbidden, gin.H{"error": "cannot post as another user"})
		return uuid.Nil, false
	}

	return id, true
}
