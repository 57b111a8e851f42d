package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	configpkg "github.com/pulsefeed-app/backend/internal/config"
	eventpkg "github.com/pulsefeed-app/backend/internal/event"
	ormpkg "github.com/pulsefeed-app/backend/internal/orm"
	workerpkg "github.com/pulsefeed-app/backend/internal/worker"
)

var workerCommand = &cobra.Command{
	Use:   "worker",
	Short: "worker",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		return workerCommandImpl()
	},
}

func workerCommandImpl() error {
	// Application
	application := fx.New(
		fx.NopLogger,
		fx.Provide(
			configpkg.Load,

			func(cfg *configpkg.Config) *zap.Logger {
				if cfg.Debug {
					logger, _ := zap.NewDevelopment()
					return logger
				}
				logger, _ := zap.NewProduction()
				return logger
			},

			// Kafka client
			func(cfg *configpkg.Config) (*eventpkg.KafkaClient, error) {
				return eventpkg.NewKafkaClient(
					cfg.Kafka.Host,
					cfg.Kafka.Port,
					cfg.Kafka.Topic,
					cfg.Kafka.Group,
				)
			},

			func(cfg *configpkg.Config, logger *zap.Logger) (*ormpkg.DatabaseClient, error) {
				return ormpkg.NewPostgresClient(
					cfg.Postgres.Host,
					cfg.Postgres.Port,
					cfg.Postgres.User,
					cfg.Postgres.Password,
					cfg.Postgres.Database,
				)
			},

			// Application
			func(
				lifecycle fx.Lifecycle,
				logger *zap.Logger,
				kafkaClient *eventpkg.KafkaClient,
				databaseClient *ormpkg.DatabaseClient,
			) *workerpkg.Worker {
				worker := workerpkg.NewWorker(logger, kafkaClient, databaseClient)

				lifecycle.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return worker.Start()
					},
					OnStop: func(ctx context.Context) error {
						return worker.Stop()
					},
				})

				return worker
			},
		),
		fx.Invoke(
			func(*eventpkg.KafkaClient) {},
			func(*workerpkg.Worker) {},
		),
	)
	application.Run()

	err := application.Err()
	if err != nil {
		os.Exit(1)
	}

	return nil
}

func init() {
	rootCommand.AddCommand(workerCommand)
}
