package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsefeed-app/backend/internal/orm"
)

type CreatePostInput struct {
	Content    string
	ImageRefs  []string
	VideoRef   *string
	CategoryID *int64
}

// PostService defines the interface for post and reaction operations. The
// reaction methods are the write surface of the interaction ledger; each call
// mutates the ledger row and the post counters atomically.
type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*orm.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*orm.Post, error)
	Like(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
	Unlike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
	Dislike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
	Undislike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
}
