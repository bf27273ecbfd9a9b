package models

import "time"

// Audit actions recorded by this service.
const (
	AuditActionLogin      = "auth.login"
	AuditActionOAuthLogin = "auth.oauth_login"
	AuditActionLogout     = "auth.logout"
	AuditActionCreated    = "suspension.created"
	AuditActionApproved   = "suspension.approved"
	AuditActionRejected   = "suspension.rejected"
)

// AuditLog is one append-only audit trail entry. Writes go through the
// background queue so they never block the request path.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
