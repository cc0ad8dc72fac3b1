// internal/growthscan/session.go
package growthscan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
)

// Stage is one step of the questionnaire flow. The flow is strictly
// linear; no backward transition is ever exposed.
type Stage string

const (
	StageIntro   Stage = "intro"
	StageRevenue Stage = "revenue"
	StagePain    Stage = "pain"
	StageLoading Stage = "loading"
	StageGate    Stage = "gate"
	StageResult  Stage = "result"
)

var stageOrder = []Stage{StageIntro, StageRevenue, StagePain, StageLoading, StageGate, StageResult}

// Session holds one in-progress scan. The answer set lives only here until
// submission; closing the session discards it and no partial lead is ever
// persisted.
type Session struct {
	ID        string    `json:"id"`
	Stage     Stage     `json:"stage"`
	Answers   Answers   `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession opens a fresh session at the intro stage.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New().String(),
		Stage:     StageIntro,
		CreatedAt: time.Now().UTC(),
	}
}

// Start moves past the intro screen.
func (s *Session) Start() error {
	return s.advance(StageIntro, StageRevenue)
}

// AnswerRevenue records the revenue tier and moves to the pain question.
func (s *Session) AnswerRevenue(tier RevenueTier) error {
	if !tier.Valid() {
		return stderrors.NewValidationFailedError("unknown revenue tier: " + string(tier))
	}
	if err := s.advance(StageRevenue, StagePain); err != nil {
		return err
	}
	s.Answers.RevenueTier = tier
	return nil
}

// AnswerPain records the main pain and moves to the loading screen.
func (s *Session) AnswerPain(pain MainPain) error {
	if !pain.Valid() {
		return stderrors.NewValidationFailedError("unknown main pain: " + string(pain))
	}
	if err := s.advance(StagePain, StageLoading); err != nil {
		return err
	}
	s.Answers.MainPain = pain
	return nil
}

// AnswerTeam records the optional team structure. It may be set at any
// point before the loading stage and does not advance the flow.
func (s *Session) AnswerTeam(team TeamStructure) error {
	if !team.Valid() {
		return stderrors.NewValidationFailedError("unknown team structure: " + string(team))
	}
	if stageIndex(s.Stage) >= stageIndex(StageLoading) {
		return stderrors.NewInvalidTransitionError(string(s.Stage), string(s.Stage))
	}
	s.Answers.TeamStructure = team
	return nil
}

// FinishLoading moves from the cosmetic loading screen to the contact
// gate. The pacing delay itself is a client affordance; the server only
// tracks the transition.
func (s *Session) FinishLoading() error {
	return s.advance(StageLoading, StageGate)
}

// Gate moves to the result stage. The caller must have both required
// answers; the scorer is never reached without them.
func (s *Session) Gate() error {
	if !s.Answers.Complete() {
		return stderrors.NewAnswersIncompleteError("stage: " + string(s.Stage))
	}
	return s.advance(StageGate, StageResult)
}

func (s *Session) advance(from, to Stage) error {
	if s.Stage != from {
		return stderrors.NewInvalidTransitionError(string(s.Stage), string(to))
	}
	s.Stage = to
	return nil
}

func stageIndex(st Stage) int {
	for i, v := range stageOrder {
		if v == st {
			return i
		}
	}
	return -1
}

// ==========================
// Session persistence
// ==========================

const sessionKeyPrefix = "growthscan:session:"

// SessionStore keeps in-progress sessions in Redis so the HTTP flow can
// drive the state machine across requests. Sessions expire on their own;
// an expired session is indistinguishable from a closed one.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: rdb, ttl: ttl}
}

// Put writes the session, refreshing its TTL.
func (st *SessionStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return st.redis.Set(ctx, sessionKeyPrefix+s.ID, data, st.ttl).Err()
}

// Get loads a session by ID. A missing or expired session yields a
// SESSION_NOT_FOUND error.
func (st *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := st.redis.Get(ctx, sessionKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, stderrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("session get", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, stderrors.NewInternalError(err)
	}
	return &s, nil
}

// Delete discards a session and its captured answers.
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	return st.redis.Del(ctx, sessionKeyPrefix+id).Err()
}
