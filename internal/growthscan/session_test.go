// internal/growthscan/session_test.go
package growthscan

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
)

func TestSession_LinearFlow(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StageIntro, s.Stage)
	assert.NotEmpty(t, s.ID)

	assert.NoError(t, s.Start())
	assert.Equal(t, StageRevenue, s.Stage)

	assert.NoError(t, s.AnswerRevenue(Revenue100KTo500K))
	assert.Equal(t, StagePain, s.Stage)

	assert.NoError(t, s.AnswerTeam(TeamAgency))
	assert.Equal(t, StagePain, s.Stage, "team answer must not advance the flow")

	assert.NoError(t, s.AnswerPain(PainBranding))
	assert.Equal(t, StageLoading, s.Stage)

	assert.NoError(t, s.FinishLoading())
	assert.Equal(t, StageGate, s.Stage)

	assert.NoError(t, s.Gate())
	assert.Equal(t, StageResult, s.Stage)

	assert.Equal(t, Revenue100KTo500K, s.Answers.RevenueTier)
	assert.Equal(t, PainBranding, s.Answers.MainPain)
	assert.Equal(t, TeamAgency, s.Answers.TeamStructure)
}

func TestSession_NoBackwardOrSkippedTransitions(t *testing.T) {
	s := NewSession()

	// Cannot answer before starting.
	err := s.AnswerRevenue(RevenueUpTo30K)
	assertCode(t, err, stderrors.ErrCodeInvalidTransition)

	require.NoError(t, s.Start())
	require.NoError(t, s.AnswerRevenue(RevenueUpTo30K))

	// Cannot answer revenue twice.
	err = s.AnswerRevenue(RevenueAbove500K)
	assertCode(t, err, stderrors.ErrCodeInvalidTransition)
	assert.Equal(t, RevenueUpTo30K, s.Answers.RevenueTier, "rejected answer must not overwrite")

	// Cannot skip the pain question.
	err = s.FinishLoading()
	assertCode(t, err, stderrors.ErrCodeInvalidTransition)

	require.NoError(t, s.AnswerPain(PainChannel))

	// Team structure window closes at loading.
	err = s.AnswerTeam(TeamSolo)
	assertCode(t, err, stderrors.ErrCodeInvalidTransition)
	assert.Empty(t, s.Answers.TeamStructure)
}

func TestSession_GateRequiresBothAnswers(t *testing.T) {
	s := NewSession()
	s.Stage = StageGate
	s.Answers.RevenueTier = Revenue30KTo100K

	err := s.Gate()
	assertCode(t, err, stderrors.ErrCodeAnswersIncomplete)
	assert.Equal(t, StageGate, s.Stage)
}

func TestSession_RejectsUnknownAnswerValues(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())

	err := s.AnswerRevenue(RevenueTier("1m_plus"))
	assertCode(t, err, stderrors.ErrCodeValidationFailed)
	assert.Equal(t, StageRevenue, s.Stage, "invalid answer must not advance")
}

func assertCode(t *testing.T, err error, code stderrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok, "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Session store tests
// ==========================

func newTestSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(rdb, ttl), mr
}

func TestSessionStore_PutGetDelete(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Minute)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, s.Start())
	require.NoError(t, s.AnswerRevenue(RevenueAbove500K))

	require.NoError(t, store.Put(ctx, s))

	loaded, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, StagePain, loaded.Stage)
	assert.Equal(t, RevenueAbove500K, loaded.Answers.RevenueTier)

	require.NoError(t, store.Delete(ctx, s.ID))

	_, err = store.Get(ctx, s.ID)
	assertCode(t, err, stderrors.ErrCodeSessionNotFound)
}

// An expired session behaves exactly like a closed one: the answer set is
// gone and nothing was persisted.
func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestSessionStore(t, 30*time.Minute)
	ctx := context.Background()

	s := NewSession()
	require.NoError(t, store.Put(ctx, s))

	mr.FastForward(31 * time.Minute)

	_, err := store.Get(ctx, s.ID)
	assertCode(t, err, stderrors.ErrCodeSessionNotFound)
}
