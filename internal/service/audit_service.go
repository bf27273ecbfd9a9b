package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/pkg/config"
	"github.com/kgabrunepark/suspension-api/pkg/jobs"
)

type auditRepository interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// AuditRecorder appends audit trail entries through a background queue so
// the request path never waits on the audit write.
type AuditRecorder struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditRecorder builds the recorder and its queue.
func NewAuditRecorder(repo auditRepository, logger *zap.Logger, cfg config.AuditConfig) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(models.AuditLog)
		if !ok {
			return fmt.Errorf("unexpected audit payload %T", job.Payload)
		}
		return repo.CreateAuditLog(ctx, &entry)
	}

	queue := jobs.New("audit", handler, jobs.Options{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})

	return &AuditRecorder{queue: queue, logger: logger}
}

// Start launches the queue workers.
func (a *AuditRecorder) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains the workers.
func (a *AuditRecorder) Stop() {
	a.queue.Stop()
}

// Record enqueues one audit entry. Failures are logged, never surfaced:
// auditing must not fail the action it describes.
func (a *AuditRecorder) Record(entry models.AuditLog) {
	if err := a.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: entry.Action, Payload: entry}); err != nil {
		a.logger.Warn("failed to enqueue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}
