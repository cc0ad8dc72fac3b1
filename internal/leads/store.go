// internal/leads/store.go
package leads

import (
	"context"
	"database/sql"
	"errors"
	"time"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Record is one persisted lead as the admin panel sees it.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	growthscan.Lead
}

// Store reads the leads_diagnostic table for the admin panel. Writes go
// through the diagnostic pipeline, never through here.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "leads-store"}),
	}
}

// List returns leads newest first. limit <= 0 falls back to the default
// page size.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, contact_name, contact_email,
		       COALESCE(contact_whatsapp, ''), revenue_tier, main_pain,
		       COALESCE(team_structure, ''), maturity_score, result_archetype,
		       COALESCE(user_agent, ''), COALESCE(referrer, '')
		FROM leads_diagnostic
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, stderrors.NewQueryTimeoutError("leads list")
		}
		return nil, stderrors.NewQueryExecutionFailedError("leads list", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.ContactName, &rec.ContactEmail,
			&rec.ContactWhatsApp, &rec.RevenueTier, &rec.MainPain,
			&rec.TeamStructure, &rec.MaturityScore, &rec.ResultArchetype,
			&rec.UserAgent, &rec.Referrer,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("leads scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("leads rows", err)
	}
	return records, nil
}

// Count returns the total number of leads for pagination.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads_diagnostic`).Scan(&count)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, stderrors.NewQueryTimeoutError("leads count")
		}
		return 0, stderrors.NewQueryExecutionFailedError("leads count", err)
	}
	return count, nil
}
