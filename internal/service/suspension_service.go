package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
	"github.com/kgabrunepark/suspension-api/pkg/export"
)

const dateLayout = "2006-01-02"

// summaryCacheKey names the cached dashboard status summary. Every write to
// the suspensions table invalidates it.
const summaryCacheKey = "dashboard:summary"

type suspensionWriteRepository interface {
	Create(ctx context.Context, s *models.Suspension) error
	List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error)
}

type summaryInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateSuspensionRequest is the creation form payload. Dates travel as
// YYYY-MM-DD strings, matching what a date input produces.
type CreateSuspensionRequest struct {
	StudentID         string   `json:"student_id"`
	StudentName       string   `json:"student_name"`
	YearGroup         *int     `json:"year_group"`
	NumberOfDays      *float64 `json:"number_of_days"`
	IsPending         bool     `json:"is_pending"`
	IncidentDate      string   `json:"incident_date"`
	StartDate         string   `json:"start_date"`
	StartSession      string   `json:"start_session"`
	EndDate           string   `json:"end_date"`
	EndSession        string   `json:"end_session"`
	ReintegrationDate string   `json:"reintegration_date"`
	ArborURL          string   `json:"arbor_url"`
}

// SuspensionService owns record creation and the filtered listing.
type SuspensionService struct {
	repo    suspensionWriteRepository
	cache   summaryInvalidator
	metrics *MetricsService
	audit   auditTrail
	logger  *zap.Logger
}

// NewSuspensionService constructs the service. cache, metrics, and audit may
// be nil; the service degrades to plain persistence.
func NewSuspensionService(repo suspensionWriteRepository, cache summaryInvalidator, metrics *MetricsService, audit auditTrail, logger *zap.Logger) *SuspensionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuspensionService{repo: repo, cache: cache, metrics: metrics, audit: audit, logger: logger}
}

// Create validates the form payload and inserts one pending record.
// Validation is ordered and short-circuits: the first failing rule's message
// is returned alone and nothing reaches the repository.
func (s *SuspensionService) Create(ctx context.Context, req CreateSuspensionRequest, actor *models.JWTClaims) (*models.Suspension, error) {
	record, vErr := s.buildRecord(req)
	if vErr != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, vErr)
	}

	if actor != nil {
		record.CreatedBy = actor.Email
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save suspension record")
	}

	s.invalidateSummary(ctx)
	s.metrics.IncSuspensionCreated()
	if s.audit != nil {
		var userID *string
		if actor != nil {
			userID = &actor.UserID
		}
		s.audit.Record(models.AuditLog{
			UserID:     userID,
			Action:     models.AuditActionCreated,
			Resource:   "suspension",
			ResourceID: &record.ID,
			NewValues:  []byte(fmt.Sprintf(`{"student_name":%q,"year_group":%d}`, record.StudentName, record.YearGroup)),
		})
	}

	return record, nil
}

// buildRecord applies the form's validation rules in their fixed order and
// returns the first failure message, empty when the payload is complete.
func (s *SuspensionService) buildRecord(req CreateSuspensionRequest) (*models.Suspension, string) {
	if strings.TrimSpace(req.StudentName) == "" {
		return nil, "Please select a student."
	}
	if req.YearGroup == nil || !models.ValidYearGroup(*req.YearGroup) {
		return nil, "Please choose a year group."
	}
	if req.NumberOfDays == nil || !models.ValidSuspensionLength(*req.NumberOfDays) {
		return nil, "Please select the number of suspension days."
	}
	incidentDate, err := time.Parse(dateLayout, req.IncidentDate)
	if err != nil {
		return nil, "Please enter the incident date."
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, "Please enter the suspension start date."
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, "Please enter the suspension end date."
	}
	startSession := models.DaySession(req.StartSession)
	if !startSession.Valid() {
		return nil, "Please select a start time (AM/PM)."
	}
	endSession := models.DaySession(req.EndSession)
	if !endSession.Valid() {
		return nil, "Please select an end time (AM/PM)."
	}

	record := &models.Suspension{
		StudentID:    req.StudentID,
		StudentName:  strings.TrimSpace(req.StudentName),
		YearGroup:    *req.YearGroup,
		NumberOfDays: *req.NumberOfDays,
		IsPending:    req.IsPending,
		IncidentDate: incidentDate,
		StartDate:    startDate,
		StartSession: startSession,
		EndDate:      endDate,
		EndSession:   endSession,
	}
	if req.ReintegrationDate != "" {
		if d, err := time.Parse(dateLayout, req.ReintegrationDate); err == nil {
			record.ReintegrationDate = &d
		}
	}
	if url := strings.TrimSpace(req.ArborURL); url != "" {
		record.ArborURL = &url
	}
	return record, ""
}

// List returns records matching the server-side filter, incident date
// descending. Client-side refinement (status tab, name search) happens in
// the browser against this set.
func (s *SuspensionService) List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suspensions")
	}
	return records, nil
}

// Export renders the filtered listing as CSV or PDF.
func (s *SuspensionService) Export(ctx context.Context, filter models.SuspensionFilter, format string) ([]byte, string, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Title:   "Suspension Register",
		Columns: []string{"Student", "Year", "Days", "Incident", "Start", "End", "Reintegration", "Status", "Decided By"},
	}
	for _, rec := range records {
		reintegration := ""
		if rec.ReintegrationDate != nil {
			reintegration = rec.ReintegrationDate.Format(dateLayout)
		}
		decidedBy := ""
		if rec.ApprovedBy != nil {
			decidedBy = *rec.ApprovedBy
		}
		table.Rows = append(table.Rows, []string{
			rec.StudentName,
			fmt.Sprintf("%d", rec.YearGroup),
			fmt.Sprintf("%g", rec.NumberOfDays),
			rec.IncidentDate.Format(dateLayout),
			fmt.Sprintf("%s (%s)", rec.StartDate.Format(dateLayout), rec.StartSession),
			fmt.Sprintf("%s (%s)", rec.EndDate.Format(dateLayout), rec.EndSession),
			reintegration,
			string(rec.ApprovalStatus),
			decidedBy,
		})
	}

	switch format {
	case "pdf":
		data, err := export.RenderPDF(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return data, "application/pdf", nil
	case "", "csv":
		data, err := export.RenderCSV(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return data, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *SuspensionService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, summaryCacheKey); err != nil {
		s.logger.Warn("failed to invalidate summary cache", zap.Error(err))
	}
}
