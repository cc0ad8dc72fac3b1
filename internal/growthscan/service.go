// internal/growthscan/service.go
package growthscan

import (
	"context"
	"errors"
	"time"

	"github.com/devtavares97/baiane-lp/internal/common/config"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/common/metrics"
)

var errLeadRejected = errors.New("lead store rejected the write")

// LeadNotifier pushes a freshly saved lead to the agency. Failures are the
// notifier's problem; the pipeline never waits on it.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead Lead)
}

// LeadIndexer mirrors a saved lead into the search cluster.
type LeadIndexer interface {
	IndexLead(ctx context.Context, lead Lead) error
}

// Submission is one completed questionnaire plus contact details, before
// scoring.
type Submission struct {
	ContactName     string        `json:"contactName"`
	ContactEmail    string        `json:"contactEmail"`
	ContactWhatsApp string        `json:"contactWhatsapp,omitempty"`
	RevenueTier     RevenueTier   `json:"revenueTier"`
	MainPain        MainPain      `json:"mainPain"`
	TeamStructure   TeamStructure `json:"teamStructure,omitempty"`
}

// Result is what the submitting user sees.
type Result struct {
	MaturityScore int             `json:"maturityScore"`
	Archetype     ArchetypeResult `json:"archetype"`
}

// Service runs the three-stage pipeline: capture, score/classify, persist.
// Control flows strictly forward; a submission fully succeeds or fully
// fails toward the caller.
type Service struct {
	cfg      config.GrowthScanConfig
	store    *LeadStore
	sessions *SessionStore
	notifier LeadNotifier
	indexer  LeadIndexer
	logger   logger.Logger
}

func NewService(
	cfg config.GrowthScanConfig,
	store *LeadStore,
	sessions *SessionStore,
	notifier LeadNotifier,
	indexer LeadIndexer,
	log logger.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		notifier: notifier,
		indexer:  indexer,
		logger:   log.WithFields(map[string]interface{}{"component": "growthscan-service"}),
	}
}

// Submit scores and classifies the answers and persists the lead. The
// scoring functions themselves have no error paths; everything that can go
// wrong is gated here before they run.
func (s *Service) Submit(ctx context.Context, sub Submission, meta RequestMeta) (*Result, error) {
	if sub.RevenueTier == "" || sub.MainPain == "" {
		return nil, stderrors.NewAnswersIncompleteError("revenue tier and main pain are required")
	}
	if !sub.RevenueTier.Valid() {
		return nil, stderrors.NewValidationFailedError("unknown revenue tier: " + string(sub.RevenueTier))
	}
	if !sub.MainPain.Valid() {
		return nil, stderrors.NewValidationFailedError("unknown main pain: " + string(sub.MainPain))
	}
	if sub.TeamStructure != "" && !sub.TeamStructure.Valid() {
		return nil, stderrors.NewValidationFailedError("unknown team structure: " + string(sub.TeamStructure))
	}

	score := CalculateMaturityScore(sub.RevenueTier, sub.MainPain, sub.TeamStructure)
	archetype := DetermineArchetype(sub.RevenueTier, sub.MainPain, score)

	lead := Lead{
		ContactName:     sub.ContactName,
		ContactEmail:    sub.ContactEmail,
		ContactWhatsApp: sub.ContactWhatsApp,
		RevenueTier:     sub.RevenueTier,
		MainPain:        sub.MainPain,
		TeamStructure:   sub.TeamStructure,
		MaturityScore:   score,
		ResultArchetype: archetype.Title,
	}

	saveCtx, cancel := context.WithTimeout(ctx, config.GetDuration(s.cfg.SubmitTimeout))
	defer cancel()

	if ok := s.store.SaveLead(saveCtx, lead, meta); !ok {
		return nil, stderrors.NewLeadInsertFailedError(errLeadRejected)
	}

	// Metadata travels with the persisted lead into the side channels too.
	lead.UserAgent = meta.UserAgent
	lead.Referrer = meta.Referrer
	s.dispatchSideEffects(lead)

	return &Result{MaturityScore: score, Archetype: archetype}, nil
}

// dispatchSideEffects fires notification and search indexing without
// blocking the response. Neither outcome affects the submission result.
func (s *Service) dispatchSideEffects(lead Lead) {
	if s.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			s.notifier.NotifyLead(ctx, lead)
		}()
	}

	if s.indexer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.indexer.IndexLead(ctx, lead); err != nil {
				s.logger.Warn("lead index failed", map[string]interface{}{
					"error":        err.Error(),
					"contactEmail": lead.ContactEmail,
				})
			}
		}()
	}
}

// ==========================
// Session-driven flow
// ==========================

// StartScan opens a new session already advanced past the intro screen.
func (s *Service) StartScan(ctx context.Context) (*Session, error) {
	session := NewSession()
	if err := session.Start(); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("session put", err)
	}
	metrics.ScansStarted.Inc()
	return session, nil
}

// AnswerRequest is one answer applied to a running session.
type AnswerRequest struct {
	Question string `json:"question"` // revenue | pain | team | loading_done
	Value    string `json:"value,omitempty"`
}

// Answer applies one answer (or the loading-finished signal) to the
// session and saves the new state.
func (s *Service) Answer(ctx context.Context, sessionID string, req AnswerRequest) (*Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch req.Question {
	case "revenue":
		err = session.AnswerRevenue(RevenueTier(req.Value))
	case "pain":
		err = session.AnswerPain(MainPain(req.Value))
	case "team":
		err = session.AnswerTeam(TeamStructure(req.Value))
	case "loading_done":
		err = session.FinishLoading()
	default:
		err = stderrors.NewValidationFailedError("unknown question: " + req.Question)
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("session put", err)
	}
	return session, nil
}

// Contact is the gate-stage contact capture.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// SubmitSession completes a session: it passes the contact gate, runs the
// pipeline, and leaves the session at the result stage.
func (s *Service) SubmitSession(ctx context.Context, sessionID string, contact Contact, meta RequestMeta) (*Result, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if contact.Name == "" || contact.Email == "" {
		return nil, stderrors.NewValidationFailedError("contact name and email are required")
	}

	if err := session.Gate(); err != nil {
		return nil, err
	}

	result, err := s.Submit(ctx, Submission{
		ContactName:     contact.Name,
		ContactEmail:    contact.Email,
		ContactWhatsApp: contact.WhatsApp,
		RevenueTier:     session.Answers.RevenueTier,
		MainPain:        session.Answers.MainPain,
		TeamStructure:   session.Answers.TeamStructure,
	}, meta)
	if err != nil {
		return nil, err
	}

	// The result stage is terminal; the session lingers until its TTL so a
	// page refresh does not re-run the pipeline.
	if err := s.sessions.Put(ctx, session); err != nil {
		s.logger.Warn("session save after submit failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}

	return result, nil
}

// CloseScan discards a session and its captured answers. Closing mid-flow
// never persists a partial lead.
func (s *Service) CloseScan(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// Already gone; closing is idempotent from the client's view.
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return stderrors.NewQueryExecutionFailedError("session delete", err)
	}

	if session.Stage != StageResult {
		metrics.ScansAbandoned.WithLabelValues(string(session.Stage)).Inc()
	}
	return nil
}
