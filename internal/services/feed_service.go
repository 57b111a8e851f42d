package services

import (
	"context"

	"github.com/google/uuid"
)

type FeedQuery struct {
	ViewerID   *uuid.UUID
	AuthorID   *uuid.UUID
	CategoryID int64
	Page       int
	Limit      int
}

// FeedItem is a post assembled for one viewer. Field names mirror the wire
// format clients already consume; Timestamp is milliseconds since epoch.
type FeedItem struct {
	ID            uuid.UUID    `json:"id"`
	Author        *UserSummary `json:"userInfo,omitempty"`
	Content       string       `json:"content"`
	Images        []string     `json:"images"`
	VideoURL      *string      `json:"videoUrl,omitempty"`
	LikesCount    int          `json:"likesCount"`
	UnlikesCount  int          `json:"unLikesCount"`
	CommentsCount int          `json:"commentsCount"`
	PostType      int          `json:"postType"`
	CategoryID    *int64       `json:"categoryId,omitempty"`
	IsLiked       bool         `json:"isLiked"`
	IsUnliked     bool         `json:"isUnliked"`
	Timestamp     int64        `json:"timestamp"`
}

// FeedService assembles paginated, per-viewer-annotated feed pages.
type FeedService interface {
	GetFeed(ctx context.Context, query FeedQuery) ([]FeedItem, error)
}
