// Package jobs hosts the asynchronous task definitions and the worker
// runtime built on Asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReceivablesOverdueScan flags pending payments past their due date.
	TaskReceivablesOverdueScan = "receivables:overdue_scan"
)

// OverdueScanPayload tunes the overdue receivables scan.
type OverdueScanPayload struct {
	// GraceDays shifts the cutoff: a payment counts as overdue only after
	// due_date + GraceDays. Zero means strictly past due.
	GraceDays int `json:"grace_days"`
}

// NewOverdueScanTask constructs an Asynq task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceivablesOverdueScan, data), nil
}
