package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kgabrunepark/suspension-api/internal/models"
)

type fakeGate struct {
	allowed map[string]bool
}

func (f *fakeGate) CanApprove(email string) bool {
	return f.allowed[email]
}

func newApproverRouter(gate *fakeGate, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	})
	router.Use(Approver(gate))
	router.GET("/approvals/pending", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestApproverAllowed(t *testing.T) {
	gate := &fakeGate{allowed: map[string]bool{"head@school.uk": true}}
	router := newApproverRouter(gate, &models.JWTClaims{Email: "head@school.uk"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/approvals/pending", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApproverDenied(t *testing.T) {
	gate := &fakeGate{allowed: map[string]bool{}}
	router := newApproverRouter(gate, &models.JWTClaims{Email: "staff@school.uk"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/approvals/pending", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to view this page.")
}

func TestApproverNoClaims(t *testing.T) {
	gate := &fakeGate{allowed: map[string]bool{"head@school.uk": true}}
	router := newApproverRouter(gate, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/approvals/pending", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
