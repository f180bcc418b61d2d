// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/inventario/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// QueueNotifications holds the outbound email tasks.
const QueueNotifications = "notifications"

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	mailer ReportMailer
	logger *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
// Every task this service enqueues goes to QueueNotifications.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	j := &JobService{
		Client: asynq.NewClient(redisOpt),
		logger: logger,
	}

	j.server = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:  cfg.Job.Concurrency,
			Queues:       map[string]int{QueueNotifications: 1},
			Logger:       newAsynqLogger(logger),
			ErrorHandler: asynq.ErrorHandlerFunc(j.reportTaskError),
		},
	)

	return j
}

// reportTaskError logs every failed attempt, flagging the last one.
func (j *JobService) reportTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	event := j.logger.Warn()
	if retried >= maxRetry {
		event = j.logger.Error()
	}
	event.
		Err(err).
		Str("type", task.Type()).
		Int("retried", retried).
		Int("max_retry", maxRetry).
		Msg("background task failed")
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskReportCreated, j.handleReportCreatedTask)
	return mux
}

// Start starts the worker server with the task handlers registered.
// It returns once the workers are running.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.mux())
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
