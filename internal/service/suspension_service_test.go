package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

type mockSuspensionRepo struct {
	created   []*models.Suspension
	createErr error
	records   []models.Suspension
	listErr   error
}

func (m *mockSuspensionRepo) Create(ctx context.Context, s *models.Suspension) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, s)
	return nil
}

func (m *mockSuspensionRepo) List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

type mockInvalidator struct {
	patterns []string
}

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

type mockAudit struct {
	entries []models.AuditLog
}

func (m *mockAudit) Record(entry models.AuditLog) {
	m.entries = append(m.entries, entry)
}

func validCreateRequest() CreateSuspensionRequest {
	year := 9
	days := 2.5
	return CreateSuspensionRequest{
		StudentID:    "s1",
		StudentName:  "Jamie Smith",
		YearGroup:    &year,
		NumberOfDays: &days,
		IncidentDate: "2026-03-02",
		StartDate:    "2026-03-03",
		StartSession: "AM",
		EndDate:      "2026-03-05",
		EndSession:   "PM",
	}
}

func TestSuspensionServiceCreateSuccess(t *testing.T) {
	repo := &mockSuspensionRepo{}
	cache := &mockInvalidator{}
	audit := &mockAudit{}
	svc := NewSuspensionService(repo, cache, nil, audit, zap.NewNop())
	actor := &models.JWTClaims{UserID: "u1", Email: "staff@school.uk"}

	record, err := svc.Create(context.Background(), validCreateRequest(), actor)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Jamie Smith", record.StudentName)
	assert.Equal(t, 9, record.YearGroup)
	assert.Equal(t, 2.5, record.NumberOfDays)
	assert.Equal(t, models.SessionAM, record.StartSession)
	assert.Equal(t, models.SessionPM, record.EndSession)
	assert.Equal(t, "staff@school.uk", record.CreatedBy)
	assert.Equal(t, []string{"dashboard:summary"}, cache.patterns)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionCreated, audit.entries[0].Action)
}

func TestSuspensionServiceCreateValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateSuspensionRequest)
		message string
	}{
		{"missing student", func(r *CreateSuspensionRequest) { r.StudentName = "  " }, "Please select a student."},
		{"missing year group", func(r *CreateSuspensionRequest) { r.YearGroup = nil }, "Please choose a year group."},
		{"year group out of range", func(r *CreateSuspensionRequest) { y := 6; r.YearGroup = &y }, "Please choose a year group."},
		{"missing days", func(r *CreateSuspensionRequest) { r.NumberOfDays = nil }, "Please select the number of suspension days."},
		{"quarter day", func(r *CreateSuspensionRequest) { d := 1.25; r.NumberOfDays = &d }, "Please select the number of suspension days."},
		{"too many days", func(r *CreateSuspensionRequest) { d := 5.5; r.NumberOfDays = &d }, "Please select the number of suspension days."},
		{"missing incident date", func(r *CreateSuspensionRequest) { r.IncidentDate = "" }, "Please enter the incident date."},
		{"missing start date", func(r *CreateSuspensionRequest) { r.StartDate = "not-a-date" }, "Please enter the suspension start date."},
		{"missing end date", func(r *CreateSuspensionRequest) { r.EndDate = "" }, "Please enter the suspension end date."},
		{"missing start session", func(r *CreateSuspensionRequest) { r.StartSession = "" }, "Please select a start time (AM/PM)."},
		{"bad end session", func(r *CreateSuspensionRequest) { r.EndSession = "noon" }, "Please select an end time (AM/PM)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSuspensionRepo{}
			svc := NewSuspensionService(repo, nil, nil, nil, zap.NewNop())
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req, nil)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Empty(t, repo.created)
		})
	}
}

func TestSuspensionServiceCreateFirstFailureWins(t *testing.T) {
	repo := &mockSuspensionRepo{}
	svc := NewSuspensionService(repo, nil, nil, nil, zap.NewNop())

	// Everything is wrong; only the student message surfaces.
	_, err := svc.Create(context.Background(), CreateSuspensionRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Please select a student.", appErrors.FromError(err).Message)
	assert.Empty(t, repo.created)
}

func TestSuspensionServiceCreateOptionalFields(t *testing.T) {
	repo := &mockSuspensionRepo{}
	svc := NewSuspensionService(repo, nil, nil, nil, zap.NewNop())

	req := validCreateRequest()
	req.ReintegrationDate = "2026-03-09"
	req.ArborURL = "  https://arbor.example/incident/42 "

	record, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, record.ReintegrationDate)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *record.ReintegrationDate)
	require.NotNil(t, record.ArborURL)
	assert.Equal(t, "https://arbor.example/incident/42", *record.ArborURL)
}

func TestSuspensionServiceExportCSV(t *testing.T) {
	note := "ok"
	repo := &mockSuspensionRepo{records: []models.Suspension{{
		StudentName:    "Jamie Smith",
		YearGroup:      9,
		NumberOfDays:   2.5,
		IncidentDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartDate:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartSession:   models.SessionAM,
		EndDate:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		EndSession:     models.SessionPM,
		ApprovalStatus: models.StatusApproved,
		ApprovedBy:     &note,
	}}}
	svc := NewSuspensionService(repo, nil, nil, nil, zap.NewNop())

	data, contentType, err := svc.Export(context.Background(), models.SuspensionFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "Student,Year,Days,"))
	assert.Contains(t, body, "Jamie Smith,9,2.5,2026-03-02,2026-03-03 (AM),2026-03-05 (PM)")
}

func TestSuspensionServiceExportUnknownFormat(t *testing.T) {
	svc := NewSuspensionService(&mockSuspensionRepo{}, nil, nil, nil, zap.NewNop())

	_, _, err := svc.Export(context.Background(), models.SuspensionFilter{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
