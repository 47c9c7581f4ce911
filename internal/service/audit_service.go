package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/repository"
	"github.com/noah-isme/orgportal-gateway/pkg/config"
	"github.com/noah-isme/orgportal-gateway/pkg/jobs"
)

type auditStore interface {
	Insert(ctx context.Context, audit models.ActionAudit) error
	List(ctx context.Context, filter repository.AuditFilter) ([]models.ActionAudit, error)
	Count(ctx context.Context, filter repository.AuditFilter) (int, error)
}

// AuditService persists the action trail asynchronously so a slow or
// down database never blocks a dispatched action.
type AuditService struct {
	store  auditStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service and its worker queue.
func NewAuditService(store auditStore, cfg config.AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{store: store, logger: logger}
	s.queue = jobs.NewQueue("action-audit", s.persist, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record implements dispatch.Recorder. Failures are logged, never
// surfaced to the action path.
func (s *AuditService) Record(ctx context.Context, entry models.ActionAudit) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: "audit", Payload: entry}); err != nil {
		s.logger.Warn("failed to enqueue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}

// List returns audit rows with pagination metadata.
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter) ([]models.ActionAudit, int, error) {
	audits, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return audits, total, nil
}

func (s *AuditService) persist(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.ActionAudit)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return s.store.Insert(ctx, entry)
}
