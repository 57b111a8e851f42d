package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
)

type stubDirectory struct {
	summaries map[uuid.UUID]*services.UserSummary
}

func (d *stubDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := d.summaries[id]
	return ok, nil
}

func (d *stubDirectory) SummaryOf(ctx context.Context, id uuid.UUID) (*services.UserSummary, error) {
	summary, ok := d.summaries[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return summary, nil
}

func newTestFeed(t *testing.T) (*FeedServiceImpl, *orm.DatabaseClient, *stubDirectory) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	client := orm.NewDatabaseClient(database)
	require.NoError(t, client.Migrate())

	directory := &stubDirectory{summaries: map[uuid.UUID]*services.UserSummary{}}
	service := NewFeedService(client, directory, zap.NewNop())
	return service, client, directory
}

func seedUser(t *testing.T, client *orm.DatabaseClient, directory *stubDirectory) uuid.UUID {
	t.Helper()

	user := &orm.User{
		Name:     "author",
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password: "hash",
	}
	require.NoError(t, client.InsertUser(user))
	directory.summaries[user.ID] = &services.UserSummary{ID: user.ID, Name: user.Name}
	return user.ID
}

func seedPostAt(t *testing.T, client *orm.DatabaseClient, authorID uuid.UUID, content string, createdAt time.Time) uuid.UUID {
	t.Helper()

	post := &orm.Post{
		AuthorID:  authorID,
		Content:   content,
		Images:    "[]",
		CreatedAt: createdAt,
	}
	require.NoError(t, client.InsertPost(post))
	return post.ID
}

func TestGetFeedNewestFirst(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)

	base := time.Now().Add(-time.Hour)
	seedPostAt(t, client, authorID, "oldest", base)
	seedPostAt(t, client, authorID, "middle", base.Add(time.Minute))
	seedPostAt(t, client, authorID, "newest", base.Add(2*time.Minute))

	items, err := service.GetFeed(context.Background(), services.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "newest", items[0].Content)
	assert.Equal(t, "middle", items[1].Content)
	assert.Equal(t, "oldest", items[2].Content)
}

func TestGetFeedPagesAreDisjoint(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedPostAt(t, client, authorID, fmt.Sprintf("post-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	first, err := service.GetFeed(context.Background(), services.FeedQuery{Page: 0, Limit: 2})
	require.NoError(t, err)
	second, err := service.GetFeed(context.Background(), services.FeedQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	third, err := service.GetFeed(context.Background(), services.FeedQuery{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Len(t, third, 1)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(append(first, second...), third...) {
		assert.False(t, seen[item.ID], "post %s appeared twice", item.ID)
		seen[item.ID] = true
	}
}

func TestGetFeedViewerFlags(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)
	viewerID := seedUser(t, client, directory)

	base := time.Now().Add(-time.Hour)
	likedID := seedPostAt(t, client, authorID, "liked", base)
	dislikedID := seedPostAt(t, client, authorID, "disliked", base.Add(time.Minute))
	plainID := seedPostAt(t, client, authorID, "plain", base.Add(2*time.Minute))

	require.NoError(t, client.AddReaction(viewerID, likedID, orm.ReactionLike))
	require.NoError(t, client.AddReaction(viewerID, dislikedID, orm.ReactionDislike))

	items, err := service.GetFeed(context.Background(), services.FeedQuery{ViewerID: &viewerID})
	require.NoError(t, err)
	require.Len(t, items, 3)

	flags := map[uuid.UUID][2]bool{}
	for _, item := range items {
		flags[item.ID] = [2]bool{item.IsLiked, item.IsUnliked}
	}
	assert.Equal(t, [2]bool{true, false}, flags[likedID])
	assert.Equal(t, [2]bool{false, true}, flags[dislikedID])
	assert.Equal(t, [2]bool{false, false}, flags[plainID])
}

func TestGetFeedAnonymousViewer(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)
	viewerID := seedUser(t, client, directory)

	postID := seedPostAt(t, client, authorID, "liked", time.Now())
	require.NoError(t, client.AddReaction(viewerID, postID, orm.ReactionLike))

	items, err := service.GetFeed(context.Background(), services.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsLiked)
	assert.False(t, items[0].IsUnliked)
	assert.Equal(t, 1, items[0].LikesCount)
}

func TestGetFeedDecodesImages(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)

	images, err := lib.EncodeMediaRefs([]string{"uploads/a.jpg", "uploads/b.jpg"})
	require.NoError(t, err)

	post := &orm.Post{
		AuthorID: authorID,
		Content:  "with media",
		Images:   images,
		Kind:     int(orm.PostKindImage),
	}
	require.NoError(t, client.InsertPost(post))

	items, err := service.GetFeed(context.Background(), services.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, items[0].Images)
	assert.Equal(t, int(orm.PostKindImage), items[0].PostType)
}

func TestGetFeedMissingAuthor(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)
	seedPostAt(t, client, authorID, "orphaned", time.Now())

	delete(directory.summaries, authorID)

	items, err := service.GetFeed(context.Background(), services.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Author)
}

func TestGetFeedAuthorFilter(t *testing.T) {
	service, client, directory := newTestFeed(t)
	firstID := seedUser(t, client, directory)
	secondID := seedUser(t, client, directory)

	base := time.Now().Add(-time.Hour)
	seedPostAt(t, client, firstID, "first-author", base)
	seedPostAt(t, client, secondID, "second-author", base.Add(time.Minute))

	items, err := service.GetFeed(context.Background(), services.FeedQuery{AuthorID: &firstID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first-author", items[0].Content)
}

func TestGetFeedTimestampMillis(t *testing.T) {
	service, client, directory := newTestFeed(t)
	authorID := seedUser(t, client, directory)

	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	seedPostAt(t, client, authorID, "dated", createdAt)

	items, err := service.GetFeed(context.Background(), services.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, createdAt.UnixMilli(), items[0].Timestamp)
}
