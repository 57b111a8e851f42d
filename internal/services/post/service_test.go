package post

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsefeed-app/backend/internal/event"
	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
)

type fixedDirectory struct {
	known map[uuid.UUID]bool
}

func (d *fixedDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d.known[id], nil
}

func (d *fixedDirectory) SummaryOf(ctx context.Context, id uuid.UUID) (*services.UserSummary, error) {
	if !d.known[id] {
		return nil, lib.ErrNotFound
	}
	return &services.UserSummary{ID: id, Name: "user"}, nil
}

type capturedEvent struct {
	name string
	data []byte
}

type capturePublisher struct {
	events []capturedEvent
}

func (p *capturePublisher) WriteMessage(ctx context.Context, event string, data []byte) error {
	p.events = append(p.events, capturedEvent{name: event, data: data})
	return nil
}

func newTestService(t *testing.T) (*PostServiceImpl, *orm.DatabaseClient, *fixedDirectory, *capturePublisher) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	client := orm.NewDatabaseClient(database)
	require.NoError(t, client.Migrate())

	directory := &fixedDirectory{known: map[uuid.UUID]bool{}}
	publisher := &capturePublisher{}
	service := NewPostService(client, directory, publisher, zap.NewNop())
	return service, client, directory, publisher
}

func seedAuthor(t *testing.T, client *orm.DatabaseClient, directory *fixedDirectory) uuid.UUID {
	t.Helper()

	user := &orm.User{
		Name:     "author",
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password: "hash",
	}
	require.NoError(t, client.InsertUser(user))
	directory.known[user.ID] = true
	return user.ID
}

func TestCreatePostText(t *testing.T) {
	service, client, directory, publisher := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello world",
	})
	require.NoError(t, err)
	assert.Equal(t, int(orm.PostKindText), post.Kind)
	assert.Equal(t, "[]", post.Images)
	assert.Nil(t, post.VideoURL)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, event.POST_CREATED, publisher.events[0].name)
}

func TestCreatePostKindDerivation(t *testing.T) {
	service, client, directory, _ := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	imagePost, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		ImageRefs: []string{"uploads/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int(orm.PostKindImage), imagePost.Kind)

	video := "uploads/clip.mp4"
	videoPost, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		ImageRefs: []string{"uploads/thumb.jpg"},
		VideoRef:  &video,
	})
	require.NoError(t, err)
	assert.Equal(t, int(orm.PostKindVideo), videoPost.Kind)
}

func TestCreatePostRejectsEmpty(t *testing.T) {
	service, client, directory, publisher := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	_, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{})
	assert.ErrorIs(t, err, lib.ErrInvalidInput)
	assert.Empty(t, publisher.events)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.CreatePost(context.Background(), uuid.New(), services.CreatePostInput{
		Content: "hello",
	})
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestLikePublishesEvent(t *testing.T) {
	service, client, directory, publisher := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello",
	})
	require.NoError(t, err)
	publisher.events = nil

	require.NoError(t, service.Like(context.Background(), authorID, post.ID))

	stored, err := client.SelectPostByID(post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LikeCount)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, event.POST_REACTION, publisher.events[0].name)
}

func TestRepeatLikeRejectedWithoutEvent(t *testing.T) {
	service, client, directory, publisher := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello",
	})
	require.NoError(t, err)

	require.NoError(t, service.Like(context.Background(), authorID, post.ID))
	publisher.events = nil

	err = service.Like(context.Background(), authorID, post.ID)
	assert.ErrorIs(t, err, lib.ErrAlreadyReacted)
	assert.Empty(t, publisher.events)
}

func TestDislikeFlipMovesCounters(t *testing.T) {
	service, client, directory, _ := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello",
	})
	require.NoError(t, err)

	require.NoError(t, service.Like(context.Background(), authorID, post.ID))
	require.NoError(t, service.Dislike(context.Background(), authorID, post.ID))

	stored, err := client.SelectPostByID(post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LikeCount)
	assert.Equal(t, 1, stored.UnlikeCount)
}

func TestReactUnknownUser(t *testing.T) {
	service, client, directory, _ := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello",
	})
	require.NoError(t, err)

	err = service.Like(context.Background(), uuid.New(), post.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestUnlikeWithoutLikeSucceeds(t *testing.T) {
	service, client, directory, _ := newTestService(t)
	authorID := seedAuthor(t, client, directory)

	post, err := service.CreatePost(context.Background(), authorID, services.CreatePostInput{
		Content: "hello",
	})
	require.NoError(t, err)

	require.NoError(t, service.Unlike(context.Background(), authorID, post.ID))

	stored, err := client.SelectPostByID(post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LikeCount)
}
