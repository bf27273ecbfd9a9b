package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kgabrunepark/suspension-api/internal/models"
)

const suspensionColumns = `id, student_id, student_name, year_group, number_of_days, is_pending,
        incident_date, start_date, start_session, end_date, end_session, reintegration_date,
        arbor_url, approval_status, approval_note, approved_by, approved_at, created_by, created_at, updated_at`

// SuspensionRepository manages persistence for suspension records.
type SuspensionRepository struct {
	db *sqlx.DB
}

// NewSuspensionRepository constructs a SuspensionRepository.
func NewSuspensionRepository(db *sqlx.DB) *SuspensionRepository {
	return &SuspensionRepository{db: db}
}

// Create inserts a new suspension record. Records always start pending.
func (r *SuspensionRepository) Create(ctx context.Context, s *models.Suspension) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	s.ApprovalStatus = models.StatusPending

	const query = `INSERT INTO suspensions (id, student_id, student_name, year_group, number_of_days, is_pending,
        incident_date, start_date, start_session, end_date, end_session, reintegration_date,
        arbor_url, approval_status, created_by, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :year_group, :number_of_days, :is_pending,
        :incident_date, :start_date, :start_session, :end_date, :end_session, :reintegration_date,
        :arbor_url, :approval_status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create suspension: %w", err)
	}
	return nil
}

// List returns suspensions matching the filter, newest incident first.
// Unset filter fields impose no constraint; date bounds are inclusive.
func (r *SuspensionRepository) List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("approval_status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.YearGroup != nil {
		where = append(where, fmt.Sprintf("year_group = $%d", len(args)+1))
		args = append(args, *filter.YearGroup)
	}
	dateColumn := filter.DateField.Column()
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("%s >= $%d", dateColumn, len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("%s <= $%d", dateColumn, len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`SELECT %s FROM suspensions WHERE %s ORDER BY incident_date DESC, created_at DESC`,
		suspensionColumns, strings.Join(where, " AND "))
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	var records []models.Suspension
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list suspensions: %w", err)
	}
	return records, nil
}

// FindByID fetches a single suspension record.
func (r *SuspensionRepository) FindByID(ctx context.Context, id string) (*models.Suspension, error) {
	query := fmt.Sprintf("SELECT %s FROM suspensions WHERE id = $1", suspensionColumns)
	var record models.Suspension
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// SetApprovalStatus applies an approve/reject decision. The update is
// conditional on the record still being pending, which makes the transition
// exactly-once and detects a concurrent decision by another approver: sql.ErrNoRows
// comes back when the row is missing or already decided.
func (r *SuspensionRepository) SetApprovalStatus(ctx context.Context, id string, decision models.ApprovalDecision) (*models.Suspension, error) {
	query := fmt.Sprintf(`UPDATE suspensions
        SET approval_status = $2, approval_note = $3, approved_by = $4, approved_at = $5, updated_at = $6
        WHERE id = $1 AND approval_status = $7
        RETURNING %s`, suspensionColumns)

	var record models.Suspension
	err := r.db.GetContext(ctx, &record, query,
		id, decision.Status, decision.Note, decision.ApprovedBy, decision.ApprovedAt,
		time.Now().UTC(), models.StatusPending)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CountByStatus aggregates record counts for the dashboard tab badges.
func (r *SuspensionRepository) CountByStatus(ctx context.Context) (*models.StatusSummary, error) {
	const query = `SELECT
        COALESCE(SUM(CASE WHEN approval_status = 'pending' THEN 1 ELSE 0 END),0) AS pending,
        COALESCE(SUM(CASE WHEN approval_status = 'approved' THEN 1 ELSE 0 END),0) AS approved,
        COALESCE(SUM(CASE WHEN approval_status = 'rejected' THEN 1 ELSE 0 END),0) AS rejected
        FROM suspensions`
	var summary models.StatusSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("count suspensions by status: %w", err)
	}
	return &summary, nil
}
