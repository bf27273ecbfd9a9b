package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kgabrunepark/suspension-api/internal/service"
	"github.com/kgabrunepark/suspension-api/pkg/response"
)

// StudentHandler exposes the roster lookup behind the creation form.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Search godoc
// @Summary Search students by name
// @Description Contains match on student name, alphabetical, capped at 50
// @Tags Students
// @Produce json
// @Param search query string false "Name fragment"
// @Param requestId query string false "Client request id, echoed back in meta"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) Search(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	students, err := h.students.Search(c.Request.Context(), search)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The echoed requestId lets the client drop responses to superseded
	// keystrokes without any server-side session state.
	var meta map[string]interface{}
	if requestID := c.Query("requestId"); requestID != "" {
		meta = map[string]interface{}{"requestId": requestID}
	}

	response.JSON(c, http.StatusOK, students, nil, meta)
}
