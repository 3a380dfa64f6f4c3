package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizmaster/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staticFeedback(text string, err error) FeedbackFunc {
	return func(ctx context.Context, questions []domain.Question, answers []domain.OptionKey, score domain.Score) (string, error) {
		return text, err
	}
}

func newTestManager(fb FeedbackFunc, opts Options) *Manager {
	return NewManager(fb, opts, zap.NewNop(),
		WithTickInterval(time.Hour),
		WithIDGenerator(func() string { return "session-1" }),
	)
}

func TestManager_StartAndGet(t *testing.T) {
	m := newTestManager(nil, Options{})
	defer m.Close()

	id, s, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)

	got, info, err := m.Get(id, "user-1")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, "gen-1", info.GenerationID)
	assert.Equal(t, 1, m.Len())
}

func TestManager_ForeignOwnerIsNotFound(t *testing.T) {
	m := newTestManager(nil, Options{})
	defer m.Close()

	id, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)

	_, _, err = m.Get(id, "user-2")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	_, err = m.Next(id, "user-2")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	assert.True(t, domain.HasCode(m.Abandon(id, "user-2"), domain.CodeNotFound))

	_, _, err = m.Get("missing", "user-1")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}

func TestManager_CompletionResolvesFeedback(t *testing.T) {
	m := newTestManager(staticFeedback("Good job.", nil), Options{})
	defer m.Close()

	id, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA, domain.OptionB))
	require.NoError(t, err)

	_, err = m.SelectAnswer(id, "user-1", domain.OptionA)
	require.NoError(t, err)
	snap, err := m.Next(id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseInProgress, snap.Phase)

	snap, err = m.Next(id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, snap.Phase)

	s, _, _ := m.Get(id, "user-1")
	require.Eventually(t, func() bool {
		return s.Snapshot().FeedbackStatus == FeedbackReady
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Good job.", s.Snapshot().Feedback)
}

func TestManager_FeedbackFailureKeepsScore(t *testing.T) {
	m := newTestManager(staticFeedback("", domain.NewTransportError(errors.New("429"))), Options{})
	defer m.Close()

	id, _, _ := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	_, err := m.SelectAnswer(id, "user-1", domain.OptionA)
	require.NoError(t, err)
	_, err = m.Next(id, "user-1")
	require.NoError(t, err)

	s, _, _ := m.Get(id, "user-1")
	require.Eventually(t, func() bool {
		return s.Snapshot().FeedbackStatus == FeedbackFailed
	}, time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	require.NotNil(t, snap.Score)
	assert.Equal(t, 100.0, snap.Score.Percentage)
}

func TestManager_AbandonCancelsFeedback(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	fb := func(ctx context.Context, _ []domain.Question, _ []domain.OptionKey, _ domain.Score) (string, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	}
	m := newTestManager(fb, Options{})
	defer m.Close()

	id, _, _ := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	_, err := m.Next(id, "user-1")
	require.NoError(t, err)
	<-started

	require.NoError(t, m.Abandon(id, "user-1"))
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("feedback call was not cancelled")
	}

	_, _, err = m.Get(id, "user-1")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	assert.Equal(t, 0, m.Len())
}

func TestManager_TimerCountsDown(t *testing.T) {
	m := NewManager(nil, Options{BudgetSeconds: 3}, zap.NewNop(), WithTickInterval(time.Millisecond))
	defer m.Close()

	_, s, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.RemainingSeconds() == 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, PhaseInProgress, s.Phase())
}

func TestManager_TimerAutoSubmit(t *testing.T) {
	m := NewManager(staticFeedback("Time ran out, but nice work.", nil),
		Options{BudgetSeconds: 2, AutoSubmitOnExpiry: true}, zap.NewNop(),
		WithTickInterval(time.Millisecond))
	defer m.Close()

	_, s, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA, domain.OptionB))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Snapshot().FeedbackStatus == FeedbackReady
	}, time.Second, time.Millisecond)
	assert.Equal(t, PhaseCompleted, s.Phase())
}

func TestManager_CloseRejectsNewSessions(t *testing.T) {
	m := newTestManager(nil, Options{})
	_, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)

	m.Close()
	assert.Equal(t, 0, m.Len())

	_, _, err = m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}

func TestManager_EvictsCompletedSessionsAfterRetention(t *testing.T) {
	m := NewManager(nil, Options{}, zap.NewNop(),
		WithTickInterval(time.Hour),
		WithResultRetention(200*time.Millisecond))
	defer m.Close()

	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		id, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
		require.NoError(t, err)
		_, err = m.Next(id, "user-1")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// results stay readable inside the window
	s, _, err := m.Get(ids[0], "user-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, s.Phase())

	require.Eventually(t, func() bool { return m.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	_, _, err = m.Get(ids[0], "user-1")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}

func TestManager_InProgressSessionsAreKept(t *testing.T) {
	m := NewManager(nil, Options{}, zap.NewNop(),
		WithTickInterval(time.Hour),
		WithResultRetention(time.Millisecond))
	defer m.Close()

	id, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA, domain.OptionB))
	require.NoError(t, err)
	_, err = m.Next(id, "user-1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, m.Len())
}

func TestManager_EvictsExpiredSessions(t *testing.T) {
	m := NewManager(nil, Options{BudgetSeconds: 2}, zap.NewNop(),
		WithTickInterval(time.Millisecond),
		WithResultRetention(20*time.Millisecond))
	defer m.Close()

	_, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_CompletionStopsTimer(t *testing.T) {
	m := NewManager(nil, Options{BudgetSeconds: 100000}, zap.NewNop(),
		WithTickInterval(time.Millisecond),
		WithResultRetention(time.Hour))
	defer m.Close()

	id, s, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)
	_, err = m.Next(id, "user-1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	frozen := s.RemainingSeconds()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, s.RemainingSeconds())
}

func TestManager_NoFeedbackAfterClose(t *testing.T) {
	var calls int
	var mu sync.Mutex
	fb := func(ctx context.Context, _ []domain.Question, _ []domain.OptionKey, _ domain.Score) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return "", nil
	}
	m := newTestManager(fb, Options{})

	id, _, err := m.Start("user-1", "gen-1", makeQuestions(domain.OptionA))
	require.NoError(t, err)
	m.mu.Lock()
	e := m.entries[id]
	m.mu.Unlock()
	_, err = e.session.GoNext()
	require.NoError(t, err)

	m.Close()
	m.requestFeedback(e)
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}
