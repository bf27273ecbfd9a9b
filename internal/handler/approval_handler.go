package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kgabrunepark/suspension-api/internal/service"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
	"github.com/kgabrunepark/suspension-api/pkg/response"
)

// ApprovalHandler exposes the pending queue and the approve/reject actions.
type ApprovalHandler struct {
	approvals *service.ApprovalService
}

// NewApprovalHandler constructs ApprovalHandler.
func NewApprovalHandler(approvals *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// Pending godoc
// @Summary List records awaiting a decision
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /approvals/pending [get]
func (h *ApprovalHandler) Pending(c *gin.Context) {
	records, err := h.approvals.PendingQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Approve godoc
// @Summary Approve a pending record
// @Tags Approvals
// @Produce json
// @Param id path string true "Suspension ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	record, err := h.approvals.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Reject godoc
// @Summary Reject a pending record
// @Description Requires a non-empty note explaining the rejection
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Suspension ID"
// @Param payload body map[string]string true "Rejection note"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var payload struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	record, err := h.approvals.Reject(c.Request.Context(), c.Param("id"), payload.Note, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
