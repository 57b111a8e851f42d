package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pulsefeed-app/backend/internal/event"
	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
)

type PostServiceImpl struct {
	db     *orm.DatabaseClient
	users  services.UserDirectory
	events services.EventPublisher
	log    *zap.Logger
}

var _ services.PostService = (*PostServiceImpl)(nil)

func NewPostService(db *orm.DatabaseClient, users services.UserDirectory, events services.EventPublisher, log *zap.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		db:     db,
		users:  users,
		events: events,
		log:    log,
	}
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, authorID uuid.UUID, input services.CreatePostInput) (*orm.Post, error) {
	exists, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user", lib.ErrNotFound)
	}

	hasVideo := input.VideoRef != nil && *input.VideoRef != ""
	if input.Content == "" && len(input.ImageRefs) == 0 && !hasVideo {
		return nil, fmt.Errorf("%w: post needs text or media", lib.ErrInvalidInput)
	}

	kind := orm.PostKindText
	if hasVideo {
		kind = orm.PostKindVideo
	} else if len(input.ImageRefs) > 0 {
		kind = orm.PostKindImage
	}

	images, err := lib.EncodeMediaRefs(input.ImageRefs)
	if err != nil {
		return nil, err
	}

	post := &orm.Post{
		AuthorID:   authorID,
		Content:    input.Content,
		Images:     images,
		VideoURL:   input.VideoRef,
		Kind:       int(kind),
		CategoryID: input.CategoryID,
	}
	if err := s.db.InsertPost(post); err != nil {
		s.log.Error("error inserting post", zap.Error(err))
		return nil, lib.ErrStorage
	}

	s.publish(ctx, event.POST_CREATED, event.PostCreatedMessage{
		PostID:   post.ID.String(),
		AuthorID: authorID.String(),
	})

	return post, nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, postID uuid.UUID) (*orm.Post, error) {
	post, err := s.db.SelectPostByID(postID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post", lib.ErrNotFound)
		}
		s.log.Error("error selecting post by id", zap.Error(err))
		return nil, lib.ErrStorage
	}
	return post, nil
}

func (s *PostServiceImpl) Like(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	return s.react(ctx, userID, postID, orm.ReactionLike, false)
}

func (s *PostServiceImpl) Unlike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	return s.react(ctx, userID, postID, orm.ReactionLike, true)
}

func (s *PostServiceImpl) Dislike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	return s.react(ctx, userID, postID, orm.ReactionDislike, false)
}

func (s *PostServiceImpl) Undislike(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	return s.react(ctx, userID, postID, orm.ReactionDislike, true)
}

func (s *PostServiceImpl) react(ctx context.Context, userID uuid.UUID, postID uuid.UUID, reaction orm.Reaction, remove bool) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user", lib.ErrNotFound)
	}

	if remove {
		err = s.db.RemoveReaction(userID, postID, reaction)
	} else {
		err = s.db.AddReaction(userID, postID, reaction)
	}
	if err != nil {
		if lib.IsClientError(err) {
			return err
		}
		s.log.Error("error applying reaction",
			zap.String("post_id", postID.String()),
			zap.String("reaction", reaction.String()),
			zap.Error(err))
		return lib.ErrStorage
	}

	s.publish(ctx, event.POST_REACTION, event.PostReactionMessage{
		PostID:   postID.String(),
		UserID:   userID.String(),
		Reaction: reaction.String(),
		Removed:  remove,
	})

	return nil
}

func (s *PostServiceImpl) publish(ctx context.Context, name string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		s.log.Error("error encoding event", zap.String("event", name), zap.Error(err))
		return
	}
	if err := s.events.WriteMessage(ctx, name, data); err != nil {
		s.log.Error("error publishing event", zap.String("event", name), zap.Error(err))
	}
}
