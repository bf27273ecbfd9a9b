package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/pkg/config"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

type approvalRepository interface {
	List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error)
	FindByID(ctx context.Context, id string) (*models.Suspension, error)
	SetApprovalStatus(ctx context.Context, id string, decision models.ApprovalDecision) (*models.Suspension, error)
}

// ApprovalService owns the pending queue and the approve/reject transitions.
// Entitlement is decided here, at the API boundary, against the configured
// allow-list; any client-side check is a UX shortcut only.
type ApprovalService struct {
	repo    approvalRepository
	cache   summaryInvalidator
	metrics *MetricsService
	audit   auditTrail
	logger  *zap.Logger
	cfg     config.ApprovalsConfig
	allowed map[string]struct{}
}

// NewApprovalService constructs the service.
func NewApprovalService(repo approvalRepository, cache summaryInvalidator, metrics *MetricsService, audit auditTrail, logger *zap.Logger, cfg config.ApprovalsConfig) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &ApprovalService{repo: repo, cache: cache, metrics: metrics, audit: audit, logger: logger, cfg: cfg, allowed: allowed}
}

// CanApprove reports whether the email is on the approvals allow-list.
func (s *ApprovalService) CanApprove(email string) bool {
	_, ok := s.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// PendingQueue returns records awaiting a decision, newest incident first,
// capped at the configured queue limit.
func (s *ApprovalService) PendingQueue(ctx context.Context) ([]models.Suspension, error) {
	status := models.StatusPending
	records, err := s.repo.List(ctx, models.SuspensionFilter{Status: &status, Limit: s.cfg.QueueLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending suspensions")
	}
	return records, nil
}

// Approve marks a pending record approved.
func (s *ApprovalService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Suspension, error) {
	return s.decide(ctx, id, models.StatusApproved, nil, actor)
}

// Reject marks a pending record rejected. The note is mandatory: a rejection
// without an explanation is not actionable for the submitting staff member.
func (s *ApprovalService) Reject(ctx context.Context, id, note string, actor *models.JWTClaims) (*models.Suspension, error) {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please add a short note explaining the rejection.")
	}
	return s.decide(ctx, id, models.StatusRejected, &trimmed, actor)
}

func (s *ApprovalService) decide(ctx context.Context, id string, status models.ApprovalStatus, note *string, actor *models.JWTClaims) (*models.Suspension, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !s.CanApprove(actor.Email) {
		return nil, appErrors.ErrNotApprover
	}

	decision := models.ApprovalDecision{
		Status:     status,
		Note:       note,
		ApprovedBy: s.signatory(actor),
		ApprovedAt: time.Now().UTC(),
	}

	record, err := s.repo.SetApprovalStatus(ctx, id, decision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update approval status")
	}

	s.invalidateSummary(ctx)
	s.metrics.IncApprovalDecision(string(status))
	if s.audit != nil {
		action := models.AuditActionApproved
		if status == models.StatusRejected {
			action = models.AuditActionRejected
		}
		s.audit.Record(models.AuditLog{
			UserID:     &actor.UserID,
			Action:     action,
			Resource:   "suspension",
			ResourceID: &record.ID,
			NewValues:  []byte(fmt.Sprintf(`{"approval_status":%q}`, status)),
		})
	}

	return record, nil
}

// classifyMissedUpdate distinguishes a missing record from one another
// approver decided first. Both arrive as zero rows from the conditional
// update.
func (s *ApprovalService) classifyMissedUpdate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "suspension record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suspension record")
	}
	return appErrors.ErrAlreadyDecided
}

func (s *ApprovalService) signatory(actor *models.JWTClaims) string {
	if name := strings.TrimSpace(actor.FullName); name != "" {
		return name
	}
	return s.cfg.Signatory
}

func (s *ApprovalService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, summaryCacheKey); err != nil {
		s.logger.Warn("failed to invalidate summary cache", zap.Error(err))
	}
}
