package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/pkg/config"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

type mockApprovalRepo struct {
	records       []models.Suspension
	lastFilter    models.SuspensionFilter
	findRecord    *models.Suspension
	findErr       error
	decided       *models.Suspension
	decideErr     error
	decideCalls   int
	lastDecision  models.ApprovalDecision
	lastDecidedID string
}

func (m *mockApprovalRepo) List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error) {
	m.lastFilter = filter
	return m.records, nil
}

func (m *mockApprovalRepo) FindByID(ctx context.Context, id string) (*models.Suspension, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.findRecord, nil
}

func (m *mockApprovalRepo) SetApprovalStatus(ctx context.Context, id string, decision models.ApprovalDecision) (*models.Suspension, error) {
	m.decideCalls++
	m.lastDecidedID = id
	m.lastDecision = decision
	if m.decideErr != nil {
		return nil, m.decideErr
	}
	return m.decided, nil
}

func approvalsConfig() config.ApprovalsConfig {
	return config.ApprovalsConfig{
		AllowedEmails: []string{"head@school.uk"},
		Signatory:     "Kerry Payne",
		QueueLimit:    100,
	}
}

func approverClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Email: "head@school.uk", FullName: "Alex Head"}
}

func TestApprovalServiceCanApprove(t *testing.T) {
	svc := NewApprovalService(&mockApprovalRepo{}, nil, nil, nil, zap.NewNop(), approvalsConfig())

	assert.True(t, svc.CanApprove("head@school.uk"))
	assert.True(t, svc.CanApprove("  HEAD@School.UK "))
	assert.False(t, svc.CanApprove("staff@school.uk"))
	assert.False(t, svc.CanApprove(""))
}

func TestApprovalServicePendingQueue(t *testing.T) {
	repo := &mockApprovalRepo{records: []models.Suspension{{ID: "1"}}}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	records, err := svc.PendingQueue(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.StatusPending, *repo.lastFilter.Status)
	assert.Equal(t, 100, repo.lastFilter.Limit)
}

func TestApprovalServiceApprove(t *testing.T) {
	repo := &mockApprovalRepo{decided: &models.Suspension{ID: "rec-1", ApprovalStatus: models.StatusApproved}}
	cache := &mockInvalidator{}
	audit := &mockAudit{}
	svc := NewApprovalService(repo, cache, nil, audit, zap.NewNop(), approvalsConfig())

	record, err := svc.Approve(context.Background(), "rec-1", approverClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, record.ApprovalStatus)
	assert.Equal(t, 1, repo.decideCalls)
	assert.Equal(t, "rec-1", repo.lastDecidedID)
	assert.Equal(t, models.StatusApproved, repo.lastDecision.Status)
	assert.Nil(t, repo.lastDecision.Note)
	assert.Equal(t, "Alex Head", repo.lastDecision.ApprovedBy)
	assert.Equal(t, []string{"dashboard:summary"}, cache.patterns)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionApproved, audit.entries[0].Action)
}

func TestApprovalServiceSignatoryFallback(t *testing.T) {
	repo := &mockApprovalRepo{decided: &models.Suspension{ID: "rec-1"}}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	claims := approverClaims()
	claims.FullName = "  "
	_, err := svc.Approve(context.Background(), "rec-1", claims)
	require.NoError(t, err)
	assert.Equal(t, "Kerry Payne", repo.lastDecision.ApprovedBy)
}

func TestApprovalServiceRejectRequiresNote(t *testing.T) {
	repo := &mockApprovalRepo{}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	_, err := svc.Reject(context.Background(), "rec-1", "   ", approverClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Please add a short note explaining the rejection.", appErr.Message)
	assert.Zero(t, repo.decideCalls)
}

func TestApprovalServiceRejectTrimsNote(t *testing.T) {
	repo := &mockApprovalRepo{decided: &models.Suspension{ID: "rec-1", ApprovalStatus: models.StatusRejected}}
	audit := &mockAudit{}
	svc := NewApprovalService(repo, nil, nil, audit, zap.NewNop(), approvalsConfig())

	_, err := svc.Reject(context.Background(), "rec-1", "  duplicate entry  ", approverClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.lastDecision.Note)
	assert.Equal(t, "duplicate entry", *repo.lastDecision.Note)
	assert.Equal(t, models.StatusRejected, repo.lastDecision.Status)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionRejected, audit.entries[0].Action)
}

func TestApprovalServiceNotOnAllowList(t *testing.T) {
	repo := &mockApprovalRepo{}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	_, err := svc.Approve(context.Background(), "rec-1", &models.JWTClaims{UserID: "u2", Email: "staff@school.uk"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotApprover.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.decideCalls)
}

func TestApprovalServiceNoActor(t *testing.T) {
	svc := NewApprovalService(&mockApprovalRepo{}, nil, nil, nil, zap.NewNop(), approvalsConfig())

	_, err := svc.Approve(context.Background(), "rec-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceAlreadyDecided(t *testing.T) {
	repo := &mockApprovalRepo{
		decideErr:  sql.ErrNoRows,
		findRecord: &models.Suspension{ID: "rec-1", ApprovalStatus: models.StatusApproved},
	}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	_, err := svc.Approve(context.Background(), "rec-1", approverClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceDecideMissingRecord(t *testing.T) {
	repo := &mockApprovalRepo{decideErr: sql.ErrNoRows, findErr: sql.ErrNoRows}
	svc := NewApprovalService(repo, nil, nil, nil, zap.NewNop(), approvalsConfig())

	_, err := svc.Approve(context.Background(), "rec-1", approverClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "suspension record not found", appErr.Message)
}
