package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

const studentSearchLimit = 50

type studentRepository interface {
	Search(ctx context.Context, search string, limit int) ([]models.Student, error)
}

// StudentService backs the creation form's search-as-you-type lookup.
type StudentService struct {
	repo   studentRepository
	logger *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// Search returns up to 50 roster entries whose name contains the term,
// alphabetical. The endpoint itself is stateless; the caller tags each
// request with an id and discards responses for superseded ids.
func (s *StudentService) Search(ctx context.Context, search string) ([]models.Student, error) {
	students, err := s.repo.Search(ctx, strings.TrimSpace(search), studentSearchLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search students")
	}
	return students, nil
}
