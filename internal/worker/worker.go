package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	eventpkg "github.com/pulsefeed-app/backend/internal/event"
	ormpkg "github.com/pulsefeed-app/backend/internal/orm"
)

// Worker consumes feed events and audits the denormalized post counters
// against the interaction ledger, rewriting them when they have drifted.
type Worker struct {
	context      context.Context
	cancel       func()
	waitGroup    sync.WaitGroup
	logger       *zap.Logger
	brokerClient *eventpkg.KafkaClient
	database     *ormpkg.DatabaseClient
	router       *Router
}

func NewWorker(logger *zap.Logger, brokerClient *eventpkg.KafkaClient, database *ormpkg.DatabaseClient) *Worker {
	context, cancel := context.WithCancel(context.Background())
	this := &Worker{
		context:      context,
		cancel:       cancel,
		logger:       logger,
		brokerClient: brokerClient,
		database:     database,
	}
	this.router = NewRouter(
		map[string][]EventHandler{
			eventpkg.POST_CREATED: {
				this.PostCreatedHandler,
			},
			eventpkg.POST_REACTION: {
				this.PostReactionHandler,
			},
		},
	)
	return this
}

func (this *Worker) Start() error {
	this.logger.Info("starting counter audit worker")

	this.waitGroup.Add(1)
	go this.worker()
	return nil
}

func (this *Worker) Stop() error {
	this.logger.Info("stopping counter audit worker")

	this.cancel()
	this.waitGroup.Wait()
	return nil
}

func (this *Worker) worker() {
	defer this.waitGroup.Done()

	for {
		select {
		case <-this.context.Done():
			return
		case <-time.After(1 * time.Millisecond):
		}

		event, data, err := this.brokerClient.ReadMessage(this.context)
		if err != nil {
			if this.context.Err() != nil {
				return
			}
			this.logger.Error("error receiving kafka message", zap.Error(err))
			continue
		}

		err = this.router.Handle(event, []byte(data))
		if err != nil {
			this.logger.Error("error handling kafka message", zap.Error(err))
			continue
		}
	}
}

func (this *Worker) PostCreatedHandler(data []byte) error {
	var message eventpkg.PostCreatedMessage
	err := json.Unmarshal(data, &message)
	if err != nil {
		return err
	}

	this.logger.Info("post created",
		zap.String("post_id", message.PostID),
		zap.String("author_id", message.AuthorID))
	return nil
}

// PostReactionHandler re-derives the reacted post's counters from the ledger
// and rewrites them when the stored values disagree. The request path floors
// decrements at zero, so a counter can sit below the true ledger count until
// this audit catches it.
func (this *Worker) PostReactionHandler(data []byte) error {
	var message eventpkg.PostReactionMessage
	err := json.Unmarshal(data, &message)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(message.PostID)
	if err != nil {
		return err
	}

	likes, err := this.database.CountInteractions(postID, ormpkg.ReactionLike)
	if err != nil {
		return err
	}
	unlikes, err := this.database.CountInteractions(postID, ormpkg.ReactionDislike)
	if err != nil {
		return err
	}

	post, err := this.database.SelectPostByID(postID.String())
	if err != nil {
		return err
	}

	if post.LikeCount == int(likes) && post.UnlikeCount == int(unlikes) {
		return nil
	}

	this.logger.Warn("post counters drifted from ledger",
		zap.String("post_id", message.PostID),
		zap.Int("stored_likes", post.LikeCount),
		zap.Int64("ledger_likes", likes),
		zap.Int("stored_unlikes", post.UnlikeCount),
		zap.Int64("ledger_unlikes", unlikes))

	return this.database.UpdatePostCounters(postID, int(likes), int(unlikes))
}
