package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/internal/service"
)

type fakeSuspensionRepo struct {
	created []*models.Suspension
	records []models.Suspension
	filters []models.SuspensionFilter
}

func (f *fakeSuspensionRepo) Create(ctx context.Context, s *models.Suspension) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSuspensionRepo) List(ctx context.Context, filter models.SuspensionFilter) ([]models.Suspension, error) {
	f.filters = append(f.filters, filter)
	return f.records, nil
}

func newSuspensionHandler(repo *fakeSuspensionRepo) *SuspensionHandler {
	return NewSuspensionHandler(service.NewSuspensionService(repo, nil, nil, nil, zap.NewNop()))
}

func TestSuspensionHandlerCreateValidationMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeSuspensionRepo{}
	handler := newSuspensionHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/suspensions", strings.NewReader(`{"student_name":""}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Please select a student.", envelope.Error.Message)
	assert.Empty(t, repo.created)
}

func TestSuspensionHandlerCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeSuspensionRepo{}
	handler := newSuspensionHandler(repo)

	payload := `{
		"student_id": "s1",
		"student_name": "Jamie Smith",
		"year_group": 9,
		"number_of_days": 2.5,
		"incident_date": "2026-03-02",
		"start_date": "2026-03-03",
		"start_session": "AM",
		"end_date": "2026-03-05",
		"end_session": "PM"
	}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/suspensions", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Jamie Smith", repo.created[0].StudentName)
}

func TestSuspensionHandlerListUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSuspensionHandler(&fakeSuspensionRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/suspensions?status=maybe", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuspensionHandlerListFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeSuspensionRepo{}
	handler := newSuspensionHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/suspensions?status=approved&yearGroup=9&dateField=start&from=2026-03-01&to=2026-03-31", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.filters, 1)
	filter := repo.filters[0]
	require.NotNil(t, filter.Status)
	assert.Equal(t, models.StatusApproved, *filter.Status)
	require.NotNil(t, filter.YearGroup)
	assert.Equal(t, 9, *filter.YearGroup)
	assert.Equal(t, models.DateFieldStart, filter.DateField)
	require.NotNil(t, filter.DateFrom)
	require.NotNil(t, filter.DateTo)
}

func TestSuspensionHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeSuspensionRepo{}
	handler := newSuspensionHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/suspensions/export", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, rec.Body.String(), "Student,Year,Days")
}
