package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/inventario/internal/config"
	"github.com/deppfellow/inventario/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// ReportMailer sends the report notification email.
type ReportMailer interface {
	SendReportCreatedEmail(to []string, report email.ReportCreated) error
}

// InitHandlers builds the dependencies the task handlers use.
// It must run before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

func (j *JobService) handleReportCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p ReportCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal report created payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", "report_created").
		Str("report_id", p.ReportID).
		Int("recipients", len(p.To)).
		Msg("Processing report notification task")

	err := j.mailer.SendReportCreatedEmail(p.To, email.ReportCreated{
		ID:          p.ReportID,
		Status:      p.Status,
		Date:        p.Date,
		File:        p.File,
		Description: p.Description,
	})
	if err != nil {
		j.logger.Error().
			Str("type", "report_created").
			Str("report_id", p.ReportID).
			Err(err).
			Msg("Failed to send report notification")
		return err // asynq marks the task failed and schedules a retry
	}

	j.logger.Info().
		Str("type", "report_created").
		Str("report_id", p.ReportID).
		Msg("Successfully sent report notification")

	return nil
}
