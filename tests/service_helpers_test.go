package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	jwtpkg "github.com/pulsefeed-app/backend/internal/jwt"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
	feedpkg "github.com/pulsefeed-app/backend/internal/services/feed"
	postpkg "github.com/pulsefeed-app/backend/internal/services/post"
	userpkg "github.com/pulsefeed-app/backend/internal/services/user"
)

// nopPublisher drops events; the integration tests cover the database path,
// not the broker.
type nopPublisher struct{}

func (nopPublisher) WriteMessage(ctx context.Context, event string, data []byte) error {
	return nil
}

type testServices struct {
	db    *orm.DatabaseClient
	users services.UserService
	posts services.PostService
	feed  services.FeedService
}

// newTestServices wires the service stack against the containerized database.
func newTestServices(t *testing.T) *testServices {
	t.Helper()

	client, err := orm.NewPostgresClientFromDSN(pgConnStr)
	require.NoError(t, err)
	require.NoError(t, client.Migrate())

	logger := zap.NewNop()
	tokens := jwtpkg.NewJWT(jwtpkg.Config{
		Secret:   "integration-secret",
		Audience: "integration-clients",
		Issuer:   "integration",
		TTL:      time.Hour,
	})

	userService := userpkg.NewUserService(client, tokens, logger)
	postService := postpkg.NewPostService(client, userService, nopPublisher{}, logger)
	feedService := feedpkg.NewFeedService(client, userService, logger)

	return &testServices{
		db:    client,
		users: userService,
		posts: postService,
		feed:  feedService,
	}
}
