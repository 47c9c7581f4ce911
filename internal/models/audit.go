package models

import "time"

// ActionAudit records one relayed mutation against the legacy portal.
type ActionAudit struct {
	ID        string    `db:"id" json:"id"`
	UserID    *int      `db:"user_id" json:"user_id,omitempty"`
	Panel     string    `db:"panel" json:"panel"`
	Action    string    `db:"action" json:"action"`
	TargetID  string    `db:"target_id" json:"target_id"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Message   string    `db:"message" json:"message"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Audit outcomes.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)
