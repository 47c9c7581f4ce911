package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orgportal-gateway/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO action_audits")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	userID := 7
	audit := models.ActionAudit{
		ID:        "aud-1",
		UserID:    &userID,
		Panel:     "accreditation",
		Action:    "approve-file",
		TargetID:  "42",
		Outcome:   models.AuditOutcomeSuccess,
		IPAddress: "10.0.0.1",
		UserAgent: "Mozilla/5.0",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(context.Background(), audit))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "panel", "action", "target_id", "outcome", "message", "ip_address", "user_agent", "created_at"}).
		AddRow("aud-1", nil, "academic-years", "activate-year", "2", "failure", "upstream status 500", "10.0.0.2", "curl", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, panel, action, target_id, outcome")).
		WithArgs("academic-years", "failure", 50).
		WillReturnRows(rows)

	audits, err := repo.List(context.Background(), AuditFilter{
		Panel:   "academic-years",
		Outcome: "failure",
	})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	require.Equal(t, "activate-year", audits[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryCount(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM action_audits")).
		WithArgs("mark-read").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background(), AuditFilter{Action: "mark-read"})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
