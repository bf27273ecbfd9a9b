package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kgabrunepark/suspension-api/internal/models"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
	"github.com/kgabrunepark/suspension-api/pkg/response"
)

type approvalGate interface {
	CanApprove(email string) bool
}

// Approver restricts the approvals surface to allow-listed emails. Runs
// after JWT, so claims are already present. The denial message is static;
// there is no retry path short of signing in as a different account.
func Approver(gate approvalGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if !gate.CanApprove(claims.Email) {
			response.Error(c, appErrors.ErrNotApprover)
			c.Abort()
			return
		}

		c.Next()
	}
}
