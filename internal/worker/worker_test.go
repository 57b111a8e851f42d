package worker

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	eventpkg "github.com/pulsefeed-app/backend/internal/event"
	ormpkg "github.com/pulsefeed-app/backend/internal/orm"
)

func newTestWorker(t *testing.T) (*Worker, *ormpkg.DatabaseClient) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	client := ormpkg.NewDatabaseClient(database)
	require.NoError(t, client.Migrate())

	return NewWorker(zap.NewNop(), nil, client), client
}

func seedReactedPost(t *testing.T, client *ormpkg.DatabaseClient) uuid.UUID {
	t.Helper()

	user := &ormpkg.User{
		Name:     "author",
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password: "hash",
	}
	require.NoError(t, client.InsertUser(user))

	post := &ormpkg.Post{
		AuthorID: user.ID,
		Content:  "hello",
		Images:   "[]",
	}
	require.NoError(t, client.InsertPost(post))
	require.NoError(t, client.AddReaction(user.ID, post.ID, ormpkg.ReactionLike))
	return post.ID
}

func reactionPayload(t *testing.T, postID uuid.UUID) []byte {
	t.Helper()

	data, err := json.Marshal(eventpkg.PostReactionMessage{
		PostID:   postID.String(),
		UserID:   uuid.New().String(),
		Reaction: "like",
	})
	require.NoError(t, err)
	return data
}

func TestPostReactionHandlerRepairsDrift(t *testing.T) {
	worker, client := newTestWorker(t)
	postID := seedReactedPost(t, client)

	// simulate drift: stored counters disagree with the ledger
	require.NoError(t, client.UpdatePostCounters(postID, 7, 3))

	require.NoError(t, worker.PostReactionHandler(reactionPayload(t, postID)))

	post, err := client.SelectPostByID(postID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, post.LikeCount)
	assert.Equal(t, 0, post.UnlikeCount)
}

func TestPostReactionHandlerLeavesAgreementAlone(t *testing.T) {
	worker, client := newTestWorker(t)
	postID := seedReactedPost(t, client)

	require.NoError(t, worker.PostReactionHandler(reactionPayload(t, postID)))

	post, err := client.SelectPostByID(postID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, post.LikeCount)
}

func TestPostReactionHandlerRejectsBadPayload(t *testing.T) {
	worker, _ := newTestWorker(t)

	assert.Error(t, worker.PostReactionHandler([]byte("{not json")))
	assert.Error(t, worker.PostReactionHandler(reactionPayloadWithID(t, "not-a-uuid")))
}

func reactionPayloadWithID(t *testing.T, postID string) []byte {
	t.Helper()

	data, err := json.Marshal(eventpkg.PostReactionMessage{
		PostID:   postID,
		UserID:   uuid.New().String(),
		Reaction: "like",
	})
	require.NoError(t, err)
	return data
}

func TestRouterDispatch(t *testing.T) {
	var handled []string
	router := NewRouter(map[string][]EventHandler{
		"known": {
			func(data []byte) error {
				handled = append(handled, string(data))
				return nil
			},
		},
	})

	require.NoError(t, router.Handle("known", []byte("payload")))
	require.NoError(t, router.Handle("unknown", []byte("dropped")))
	assert.Equal(t, []string{"payload"}, handled)
}
