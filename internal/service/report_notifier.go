package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/inventario/internal/lib/job"
	"github.com/deppfellow/inventario/internal/server"
	"github.com/deppfellow/inventario/internal/validation"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// TaskEnqueuer is the part of *asynq.Client the notifier uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReportNotifier enqueues a report-created email for every new report.
// Enqueue failures are logged; the report is already stored.
type ReportNotifier struct {
	client     TaskEnqueuer
	recipients []string
	logger     *zerolog.Logger
}

func NewReportNotifier(s *server.Server) *ReportNotifier {
	return &ReportNotifier{
		client:     s.Job.Client,
		recipients: s.Config.Integration.ReportRecipients,
		logger:     s.Logger,
	}
}

func (n *ReportNotifier) Notify(ctx context.Context, id any, payload validation.Payload) {
	task, err := job.NewReportCreatedTask(job.ReportCreatedPayload{
		To:          n.recipients,
		ReportID:    fmt.Sprint(id),
		Status:      cast.ToString(payload["estado_reporte"]),
		Date:        cast.ToString(payload["fecha_reporte"]),
		File:        cast.ToString(payload["archivo"]),
		Description: cast.ToString(payload["descripcion"]),
	})
	if err != nil {
		n.logger.Error().Err(err).Str("report_id", fmt.Sprint(id)).Msg("failed to build report notification task")
		return
	}

	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		n.logger.Error().Err(err).Str("report_id", fmt.Sprint(id)).Msg("failed to enqueue report notification")
		return
	}

	n.logger.Info().
		Str("report_id", fmt.Sprint(id)).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("report notification enqueued")
}
