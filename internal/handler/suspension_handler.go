package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/internal/service"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
	"github.com/kgabrunepark/suspension-api/pkg/response"
)

const filterDateLayout = "2006-01-02"

// SuspensionHandler exposes record creation, the filtered listing, and the
// register export.
type SuspensionHandler struct {
	suspensions *service.SuspensionService
}

// NewSuspensionHandler constructs SuspensionHandler.
func NewSuspensionHandler(suspensions *service.SuspensionService) *SuspensionHandler {
	return &SuspensionHandler{suspensions: suspensions}
}

// Create godoc
// @Summary Create suspension record
// @Description Validates the creation form and stores a pending record
// @Tags Suspensions
// @Accept json
// @Produce json
// @Param payload body service.CreateSuspensionRequest true "Suspension payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /suspensions [post]
func (h *SuspensionHandler) Create(c *gin.Context) {
	var req service.CreateSuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	record, err := h.suspensions.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// List godoc
// @Summary List suspension records
// @Tags Suspensions
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param yearGroup query int false "Year group 7-11"
// @Param dateField query string false "incident, start or end"
// @Param from query string false "Range start YYYY-MM-DD"
// @Param to query string false "Range end YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /suspensions [get]
func (h *SuspensionHandler) List(c *gin.Context) {
	filter, err := parseSuspensionFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.suspensions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// Export godoc
// @Summary Export the suspension register
// @Description Renders the filtered listing as a CSV or PDF download
// @Tags Suspensions
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /suspensions/export [get]
func (h *SuspensionHandler) Export(c *gin.Context) {
	filter, err := parseSuspensionFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.suspensions.Export(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if format == "pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("suspensions-%s.%s", time.Now().UTC().Format(filterDateLayout), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func parseSuspensionFilter(c *gin.Context) (models.SuspensionFilter, error) {
	var filter models.SuspensionFilter

	if raw := c.Query("status"); raw != "" {
		status := models.ApprovalStatus(raw)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = &status
	}
	if raw := c.Query("yearGroup"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || !models.ValidYearGroup(year) {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown year group %q", raw))
		}
		filter.YearGroup = &year
	}

	filter.DateField = models.DateField(c.DefaultQuery("dateField", string(models.DateFieldIncident)))
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		filter.DateTo = &to
	}

	return filter, nil
}
