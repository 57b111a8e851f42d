package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	clientpkg "github.com/pulsefeed-app/backend/internal/client"
	configpkg "github.com/pulsefeed-app/backend/internal/config"
	eventpkg "github.com/pulsefeed-app/backend/internal/event"
	httppkg "github.com/pulsefeed-app/backend/internal/http"
	jwtpkg "github.com/pulsefeed-app/backend/internal/jwt"
	metricspkg "github.com/pulsefeed-app/backend/internal/metrics"
	ormpkg "github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
	feedpkg "github.com/pulsefeed-app/backend/internal/services/feed"
	postpkg "github.com/pulsefeed-app/backend/internal/services/post"
	userpkg "github.com/pulsefeed-app/backend/internal/services/user"
)

var serverCommand = &cobra.Command{
	Use:   "server",
	Short: "server",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverCommandImpl()
	},
}

func serverCommandImpl() error {
	// Application
	application := fx.New(
		fx.Provide(
			configpkg.Load,

			// Logger
			func(cfg *configpkg.Config) *zap.Logger {
				if cfg.Debug {
					logger, _ := zap.NewDevelopment()
					return logger
				}
				logger, _ := zap.NewProduction()
				return logger
			},

			// Token signer
			func(cfg *configpkg.Config) *jwtpkg.JWT {
				return jwtpkg.NewJWT(jwtpkg.Config{
					Secret:   cfg.Token.Secret,
					Audience: cfg.Token.Audience,
					Issuer:   cfg.Token.Issuer,
					TTL:      cfg.Token.TTL,
				})
			},

			// Clients
			func(cfg *configpkg.Config, logger *zap.Logger) (*ormpkg.DatabaseClient, error) {
				client, err := ormpkg.NewPostgresClient(
					cfg.Postgres.Host,
					cfg.Postgres.Port,
					cfg.Postgres.User,
					cfg.Postgres.Password,
					cfg.Postgres.Database,
				)
				if err != nil {
					return nil, err
				}
				if err := client.Migrate(); err != nil {
					return nil, err
				}
				return client, nil
			},
			func(cfg *configpkg.Config) (*eventpkg.KafkaClient, error) {
				return eventpkg.NewKafkaClient(
					cfg.Kafka.Host,
					cfg.Kafka.Port,
					cfg.Kafka.Topic,
					cfg.Kafka.Group,
				)
			},
			func(cfg *configpkg.Config) (*clientpkg.S3Client, error) {
				return clientpkg.NewS3Client(context.Background(), cfg.Media.Bucket)
			},
			func(cfg *configpkg.Config, logger *zap.Logger) *clientpkg.YtDlpClient {
				return clientpkg.NewYtDlpClient(
					cfg.VideoParser.Binary,
					cfg.VideoParser.Timeout,
					logger,
				)
			},
			metricspkg.NewMetrics,

			// Services
			userpkg.NewUserService,
			postpkg.NewPostService,
			feedpkg.NewFeedService,

			// Interface bindings
			func(impl *userpkg.UserServiceImpl) services.UserService { return impl },
			func(impl *userpkg.UserServiceImpl) services.UserDirectory { return impl },
			func(impl *postpkg.PostServiceImpl) services.PostService { return impl },
			func(impl *feedpkg.FeedServiceImpl) services.FeedService { return impl },
			func(client *eventpkg.KafkaClient) services.EventPublisher { return client },
			func(client *clientpkg.S3Client) services.MediaStore { return client },

			// Handlers
			httppkg.NewUserHandler,
			httppkg.NewPostHandler,
			httppkg.NewFeedHandler,
			httppkg.NewUploadHandler,
			httppkg.NewVideoHandler,

			// HTTP server
			func(
				lifecycle fx.Lifecycle,
				cfg *configpkg.Config,
				logger *zap.Logger,
				jwt *jwtpkg.JWT,
				db *ormpkg.DatabaseClient,
				meters *metricspkg.Metrics,
				users *httppkg.UserHandler,
				posts *httppkg.PostHandler,
				feed *httppkg.FeedHandler,
				uploads *httppkg.UploadHandler,
				videos *httppkg.VideoHandler,
			) *httppkg.Server {
				server := httppkg.NewServer(cfg, logger, jwt, db, meters, users, posts, feed, uploads, videos)
				lifecycle.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return server.Start()
					},
					OnStop: func(ctx context.Context) error {
						return server.Stop(ctx)
					},
				})
				return server
			},
		),
		fx.Invoke(func(*httppkg.Server) {}),
	)
	application.Run()

	err := application.Err()
	if err != nil {
		os.Exit(1)
	}

	return nil
}

func init() {
	rootCommand.AddCommand(serverCommand)
}
