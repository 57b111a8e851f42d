package feed

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
)

type FeedServiceImpl struct {
	db    *orm.DatabaseClient
	users services.UserDirectory
	log   *zap.Logger
}

var _ services.FeedService = (*FeedServiceImpl)(nil)

func NewFeedService(db *orm.DatabaseClient, users services.UserDirectory, log *zap.Logger) *FeedServiceImpl {
	return &FeedServiceImpl{
		db:    db,
		users: users,
		log:   log,
	}
}

// GetFeed returns one page of posts, newest first, enriched with author
// summaries and, when a viewer is known, that viewer's reaction flags.
func (s *FeedServiceImpl) GetFeed(ctx context.Context, query services.FeedQuery) ([]services.FeedItem, error) {
	_, limit, offset := lib.NormalizePage(query.Page, query.Limit)

	authorID := ""
	if query.AuthorID != nil {
		authorID = query.AuthorID.String()
	}

	posts, err := s.db.SelectPostsPage(authorID, query.CategoryID, offset, limit)
	if err != nil {
		s.log.Error("error selecting posts page", zap.Error(err))
		return nil, lib.ErrStorage
	}

	items := make([]services.FeedItem, 0, len(posts))
	for _, post := range posts {
		item, err := s.assemble(ctx, post, query)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *FeedServiceImpl) assemble(ctx context.Context, post *orm.Post, query services.FeedQuery) (services.FeedItem, error) {
	images, err := lib.DecodeMediaRefs(post.Images)
	if err != nil {
		s.log.Error("error decoding media refs",
			zap.String("post_id", post.ID.String()),
			zap.Error(err))
		return services.FeedItem{}, lib.ErrStorage
	}

	item := services.FeedItem{
		ID:            post.ID,
		Content:       post.Content,
		Images:        images,
		VideoURL:      post.VideoURL,
		LikesCount:    post.LikeCount,
		UnlikesCount:  post.UnlikeCount,
		CommentsCount: post.CommentCount,
		PostType:      post.Kind,
		CategoryID:    post.CategoryID,
		Timestamp:     post.CreatedAt.UnixMilli(),
	}

	// TODO: batch author lookups; this is one query per post.
	author, err := s.users.SummaryOf(ctx, post.AuthorID)
	if err != nil {
		if !errors.Is(err, lib.ErrNotFound) {
			return services.FeedItem{}, err
		}
		// author deleted after posting; the item ships without userInfo
	} else {
		item.Author = author
	}

	if query.ViewerID != nil {
		interaction, err := s.db.SelectInteraction(*query.ViewerID, post.ID)
		switch {
		case err == nil:
			item.IsLiked = orm.Reaction(interaction.Reaction) == orm.ReactionLike
			item.IsUnliked = orm.Reaction(interaction.Reaction) == orm.ReactionDislike
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no reaction recorded, flags stay false
		default:
			s.log.Error("error selecting interaction", zap.Error(err))
			return services.FeedItem{}, lib.ErrStorage
		}
	}

	return item, nil
}
