package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kgabrunepark/suspension-api/internal/models"
)

// StudentRepository reads the student roster backing the form's lookup.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Search returns students whose name contains the search term
// (case-insensitive), alphabetical, capped at limit. An empty term returns
// the first page of the full roster.
func (r *StudentRepository) Search(ctx context.Context, search string, limit int) ([]models.Student, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	query := "SELECT id, student_name, year_group, created_at FROM students"
	args := []interface{}{}
	if term := strings.TrimSpace(search); term != "" {
		query += " WHERE student_name ILIKE $1"
		args = append(args, "%"+term+"%")
	}
	query += fmt.Sprintf(" ORDER BY student_name ASC LIMIT %d", limit)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}
