package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskReportCreated is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskReportCreated = "email:report_created"
)

// ReportCreatedPayload is the JSON payload of the report notification task.
type ReportCreatedPayload struct {
	To          []string `json:"to"`
	ReportID    string   `json:"report_id"`
	Status      string   `json:"status"`
	Date        string   `json:"date"`
	File        string   `json:"file"`
	Description string   `json:"description"`
}

// NewReportCreatedTask constructs an Asynq task that emails the report
// recipients about a new report.
//
// Options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue(QueueNotifications)
//   - Timeout(30s): kill the task if handler runs longer than 30 seconds
func NewReportCreatedTask(p ReportCreatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskReportCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueNotifications),
		asynq.Timeout(30*time.Second),
	), nil
}
