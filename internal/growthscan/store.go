// internal/growthscan/store.go
package growthscan

import (
	"context"
	"database/sql"

	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/common/metrics"
)

// RequestMeta carries request-time metadata attached to every lead. Both
// fields may be empty when the submission did not come through a browser.
type RequestMeta struct {
	UserAgent string
	Referrer  string
}

// LeadStore persists completed diagnostic submissions. Leads are
// append-only: this store never updates or deletes a row.
type LeadStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLeadStore(db *sql.DB, log logger.Logger) *LeadStore {
	return &LeadStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "lead-store"}),
	}
}

// SaveLead appends the request metadata to the lead and writes a single row
// to leads_diagnostic. Any persistence error is logged and reduced to a
// false return; nothing is ever raised to the caller. When no database
// connection was established the store short-circuits without attempting a
// write. Repeated submissions produce repeated rows; deduplication is
// intentionally absent.
func (s *LeadStore) SaveLead(ctx context.Context, lead Lead, meta RequestMeta) bool {
	if s.db == nil {
		s.logger.Error("lead store not configured", map[string]interface{}{
			"contactEmail": lead.ContactEmail,
		})
		return false
	}

	lead.UserAgent = meta.UserAgent
	lead.Referrer = meta.Referrer

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads_diagnostic (
			contact_name, contact_email, contact_whatsapp,
			revenue_tier, main_pain, team_structure,
			maturity_score, result_archetype, user_agent, referrer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		lead.ContactName,
		lead.ContactEmail,
		nullIfEmpty(lead.ContactWhatsApp),
		string(lead.RevenueTier),
		string(lead.MainPain),
		nullIfEmpty(string(lead.TeamStructure)),
		lead.MaturityScore,
		lead.ResultArchetype,
		nullIfEmpty(lead.UserAgent),
		nullIfEmpty(lead.Referrer),
	)
	if err != nil {
		s.logger.Error("lead insert failed", map[string]interface{}{
			"error":        err.Error(),
			"contactEmail": lead.ContactEmail,
			"archetype":    lead.ResultArchetype,
		})
		metrics.LeadInsertFailures.Inc()
		return false
	}

	s.logger.Info("lead saved", map[string]interface{}{
		"contactEmail":  lead.ContactEmail,
		"revenueTier":   string(lead.RevenueTier),
		"mainPain":      string(lead.MainPain),
		"maturityScore": lead.MaturityScore,
		"archetype":     lead.ResultArchetype,
	})
	metrics.LeadsCreated.WithLabelValues(lead.ResultArchetype, string(lead.RevenueTier)).Inc()

	return true
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
