package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"quizmaster/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultResultRetention is how long a finished or expired session stays
// readable before the manager drops it.
const DefaultResultRetention = 10 * time.Minute

// FeedbackFunc produces feedback text for a submitted quiz.
type FeedbackFunc func(ctx context.Context, questions []domain.Question, answers []domain.OptionKey, score domain.Score) (string, error)

// Info describes a live session without exposing its internals.
type Info struct {
	ID           string
	OwnerID      string
	GenerationID string
	StartedAt    time.Time
}

type entry struct {
	info    Info
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
	// evict is guarded by Manager.mu.
	evict *time.Timer
}

// Manager keeps live sessions in memory. Each session has its own ticker
// goroutine and its own context; abandoning a session cancels both.
// Submitted and expired sessions are dropped after the retention window.
type Manager struct {
	mu       sync.Mutex
	entries  map[string]*entry
	opts     Options
	feedback FeedbackFunc
	logger   *zap.Logger

	tickInterval time.Duration
	retention    time.Duration
	newID        func() string

	root   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithTickInterval changes how often the timer fires. Tests use short
// intervals; production keeps one second.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.tickInterval = d }
}

// WithResultRetention sets how long sessions stay readable after they are
// submitted or their clock runs out. Non-positive values keep the default.
func WithResultRetention(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.retention = d
		}
	}
}

// WithIDGenerator replaces the UUID session IDs.
func WithIDGenerator(fn func() string) ManagerOption {
	return func(m *Manager) { m.newID = fn }
}

// NewManager creates a Manager. feedback may be nil, in which case completed
// sessions keep FeedbackPending forever.
func NewManager(feedback FeedbackFunc, opts Options, logger *zap.Logger, mopts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, stop := context.WithCancel(context.Background())
	m := &Manager{
		entries:      make(map[string]*entry),
		opts:         opts,
		feedback:     feedback,
		logger:       logger,
		tickInterval: time.Second,
		retention:    DefaultResultRetention,
		newID:        uuid.NewString,
		root:         root,
		stop:         stop,
	}
	for _, o := range mopts {
		o(m)
	}
	return m
}

// Start registers a new session for ownerID and starts its timer.
func (m *Manager) Start(ownerID, generationID string, questions []domain.Question) (string, *Session, error) {
	s, err := New(questions, m.opts)
	if err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", nil, domain.NewInternalError("session manager is shut down", nil)
	}

	ctx, cancel := context.WithCancel(m.root)
	e := &entry{
		info: Info{
			ID:           m.newID(),
			OwnerID:      ownerID,
			GenerationID: generationID,
			StartedAt:    time.Now().UTC(),
		},
		session: s,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	m.entries[e.info.ID] = e

	m.wg.Add(1)
	go m.runTimer(e)

	m.logger.Info("Quiz session started",
		zap.String("session_id", e.info.ID),
		zap.String("generation_id", generationID),
		zap.Int("questions", len(questions)),
	)
	return e.info.ID, s, nil
}

// Get returns the session owned by ownerID. Unknown IDs and sessions owned
// by someone else are both reported as NOT_FOUND.
func (m *Manager) Get(id, ownerID string) (*Session, Info, error) {
	e, err := m.lookup(id, ownerID)
	if err != nil {
		return nil, Info{}, err
	}
	return e.session, e.info, nil
}

// SelectAnswer records key for the current question.
func (m *Manager) SelectAnswer(id, ownerID string, key domain.OptionKey) (Snapshot, error) {
	e, err := m.lookup(id, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.session.SelectAnswer(key); err != nil {
		return Snapshot{}, err
	}
	return e.session.Snapshot(), nil
}

// Next advances the session, submitting it on the last question.
func (m *Manager) Next(id, ownerID string) (Snapshot, error) {
	e, err := m.lookup(id, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	done, err := e.session.GoNext()
	if err != nil {
		return Snapshot{}, err
	}
	if done {
		m.finish(e)
	}
	return e.session.Snapshot(), nil
}

// Previous moves the session back one question.
func (m *Manager) Previous(id, ownerID string) (Snapshot, error) {
	e, err := m.lookup(id, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.session.GoPrevious(); err != nil {
		return Snapshot{}, err
	}
	return e.session.Snapshot(), nil
}

// Abandon stops the session's timer, cancels any feedback request in flight
// and forgets the session.
func (m *Manager) Abandon(id, ownerID string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok || e.info.OwnerID != ownerID {
		m.mu.Unlock()
		return domain.NewNotFoundError("quiz session not found")
	}
	delete(m.entries, id)
	if e.evict != nil {
		e.evict.Stop()
	}
	m.mu.Unlock()

	e.cancel()
	m.logger.Info("Quiz session abandoned", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close abandons every session and waits for timers and feedback requests
// to finish.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	for _, e := range m.entries {
		if e.evict != nil {
			e.evict.Stop()
		}
	}
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	m.stop()
	m.wg.Wait()
}

// Wait blocks until every timer and feedback goroutine has exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) lookup(id, ownerID string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.info.OwnerID != ownerID {
		return nil, domain.NewNotFoundError("quiz session not found")
	}
	return e, nil
}

func (m *Manager) runTimer(e *entry) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			if e.session.Tick() {
				m.logger.Info("Quiz session submitted on timeout", zap.String("session_id", e.info.ID))
				m.finish(e)
				return
			}
			if e.session.RemainingSeconds() == 0 {
				// Expired but not submitted: the owner can still finish it
				// until the retention window closes.
				m.scheduleEviction(e)
				return
			}
		}
	}
}

// finish runs once per session, after it moves to Completed. It stops the
// timer, starts the feedback request and schedules eviction.
func (m *Manager) finish(e *entry) {
	e.doneOnce.Do(func() {
		close(e.done)
		m.requestFeedback(e)
		m.scheduleEviction(e)
	})
}

// scheduleEviction drops e after the retention window. A later call restarts
// the window.
func (m *Manager) scheduleEviction(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.entries[e.info.ID] != e {
		return
	}
	if e.evict != nil {
		e.evict.Stop()
	}
	e.evict = time.AfterFunc(m.retention, func() { m.evictEntry(e) })
}

func (m *Manager) evictEntry(e *entry) {
	m.mu.Lock()
	if m.entries[e.info.ID] != e {
		m.mu.Unlock()
		return
	}
	delete(m.entries, e.info.ID)
	m.mu.Unlock()

	e.cancel()
	m.logger.Debug("Quiz session evicted", zap.String("session_id", e.info.ID))
}

func (m *Manager) requestFeedback(e *entry) {
	if m.feedback == nil {
		return
	}
	answers, score, ok := e.session.Outcome()
	if !ok {
		return
	}
	questions := e.session.Questions()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		text, err := m.feedback(e.ctx, questions, answers, score)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				m.logger.Debug("Feedback request cancelled", zap.String("session_id", e.info.ID))
			} else {
				m.logger.Error("Failed to generate quiz feedback",
					zap.String("session_id", e.info.ID),
					zap.Error(err),
				)
			}
		}
		e.session.ResolveFeedback(text, err)
	}()
}
