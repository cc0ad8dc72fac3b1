// internal/leads/store_test.go
package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
)

func leadColumns() []string {
	return []string{
		"id", "created_at", "contact_name", "contact_email", "contact_whatsapp",
		"revenue_tier", "main_pain", "team_structure", "maturity_score",
		"result_archetype", "user_agent", "referrer",
	}
}

func TestStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	older := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM leads_diagnostic`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(leadColumns()).
			AddRow("lead-2", newer, "Ana Costa", "ana@exemplo.com", "", "above_500k", "branding", "in_house", 95, "O Gigante Invisível", "", "").
			AddRow("lead-1", older, "João Lima", "joao@exemplo.com", "+5571999990000", "up_to_30k", "channel", "", 20, "Fase de Validação", "Mozilla/5.0", "google"))

	store := NewStore(db, logger.NewNoOpLogger())

	records, err := store.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "lead-2", records[0].ID)
	assert.Equal(t, 95, records[0].MaturityScore)
	assert.Equal(t, "João Lima", records[1].ContactName)
	assert.Equal(t, "+5571999990000", records[1].ContactWhatsApp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_ClampsPageSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM leads_diagnostic`).
		WithArgs(200, 0).
		WillReturnRows(sqlmock.NewRows(leadColumns()))

	store := NewStore(db, logger.NewNoOpLogger())

	records, err := store.List(context.Background(), 5000, -10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM leads_diagnostic`).
		WillReturnError(errors.New("connection refused"))

	store := NewStore(db, logger.NewNoOpLogger())

	_, err = store.List(context.Background(), 10, 0)
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeQueryExecutionFailed, stdErr.Code)
}

func TestStore_List_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM leads_diagnostic`).
		WillReturnError(context.DeadlineExceeded)

	store := NewStore(db, logger.NewNoOpLogger())

	_, err = store.List(context.Background(), 10, 0)
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeQueryTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestStore_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	store := NewStore(db, logger.NewNoOpLogger())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
