package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

// AuditRepository persists the mutation trail the gateway keeps for
// actions relayed to the legacy portal.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository instantiates the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores one audit row.
func (r *AuditRepository) Insert(ctx context.Context, audit models.ActionAudit) error {
	query := `INSERT INTO action_audits
        (id, user_id, panel, action, target_id, outcome, message, ip_address, user_agent, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.UserID, audit.Panel, audit.Action, audit.TargetID,
		audit.Outcome, audit.Message, audit.IPAddress, audit.UserAgent, audit.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert action audit: %w", err)
	}
	return nil
}

// AuditFilter narrows List results.
type AuditFilter struct {
	Panel   string
	Action  string
	Outcome string
	Limit   int
	Offset  int
}

// List returns audit rows newest first.
func (r *AuditRepository) List(ctx context.Context, filter AuditFilter) ([]models.ActionAudit, error) {
	var builder strings.Builder
	builder.WriteString("SELECT id, user_id, panel, action, target_id, outcome, message, ip_address, user_agent, created_at FROM action_audits WHERE 1=1")
	var args []interface{}
	if filter.Panel != "" {
		args = append(args, filter.Panel)
		builder.WriteString(fmt.Sprintf(" AND panel = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		builder.WriteString(fmt.Sprintf(" AND action = $%d", len(args)))
	}
	if filter.Outcome != "" {
		args = append(args, filter.Outcome)
		builder.WriteString(fmt.Sprintf(" AND outcome = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	var audits []models.ActionAudit
	if err := r.db.SelectContext(ctx, &audits, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query action audits: %w", err)
	}
	return audits, nil
}

// Count returns the total number of audit rows matching the filter.
func (r *AuditRepository) Count(ctx context.Context, filter AuditFilter) (int, error) {
	var builder strings.Builder
	builder.WriteString("SELECT COUNT(*) FROM action_audits WHERE 1=1")
	var args []interface{}
	if filter.Panel != "" {
		args = append(args, filter.Panel)
		builder.WriteString(fmt.Sprintf(" AND panel = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		builder.WriteString(fmt.Sprintf(" AND action = $%d", len(args)))
	}
	if filter.Outcome != "" {
		args = append(args, filter.Outcome)
		builder.WriteString(fmt.Sprintf(" AND outcome = $%d", len(args)))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("count action audits: %w", err)
	}
	return total, nil
}
