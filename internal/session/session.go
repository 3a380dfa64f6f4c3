// Package session holds the quiz-taking state machine and the registry of
// live sessions.
package session

import (
	"sync"

	"quizmaster/internal/domain"
)

// DefaultBudgetSeconds is the time allowed for one quiz.
const DefaultBudgetSeconds = 600

// Phase names the two states a session can be in.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// FeedbackStatus tracks the AI feedback requested on completion.
type FeedbackStatus string

const (
	FeedbackNone    FeedbackStatus = ""
	FeedbackPending FeedbackStatus = "pending"
	FeedbackReady   FeedbackStatus = "ready"
	FeedbackFailed  FeedbackStatus = "failed"
)

var (
	// ErrSessionCompleted is returned by navigation and answering once the
	// session has been submitted.
	ErrSessionCompleted = domain.NewInvalidTransitionError("the quiz has already been submitted")
	// ErrAtFirstQuestion is returned by GoPrevious on the first question.
	ErrAtFirstQuestion = domain.NewInvalidTransitionError("already at the first question")
)

// Options configure a new session.
type Options struct {
	// BudgetSeconds defaults to DefaultBudgetSeconds when zero.
	BudgetSeconds int
	// AutoSubmitOnExpiry completes the session when the timer reaches zero.
	AutoSubmitOnExpiry bool
}

type state interface {
	phase() Phase
}

type inProgress struct {
	currentIndex int
	answers      []domain.OptionKey
}

func (inProgress) phase() Phase { return PhaseInProgress }

type completed struct {
	answers  []domain.OptionKey
	score    domain.Score
	feedback FeedbackStatus
	text     string
	err      error
}

func (completed) phase() Phase { return PhaseCompleted }

// Session is one attempt at a fixed list of questions. All methods are safe
// for concurrent use.
type Session struct {
	mu         sync.Mutex
	questions  []domain.Question
	remaining  int
	autoSubmit bool
	state      state
}

// New starts a session at the first question with every answer empty.
func New(questions []domain.Question, opts Options) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.NewInvalidInputError("a quiz needs at least one question")
	}
	budget := opts.BudgetSeconds
	if budget <= 0 {
		budget = DefaultBudgetSeconds
	}

	qs := make([]domain.Question, len(questions))
	copy(qs, questions)

	return &Session{
		questions:  qs,
		remaining:  budget,
		autoSubmit: opts.AutoSubmitOnExpiry,
		state: &inProgress{
			answers: make([]domain.OptionKey, len(questions)),
		},
	}, nil
}

// SelectAnswer records key for the current question, replacing any earlier
// choice. The current question does not change.
func (s *Session) SelectAnswer(key domain.OptionKey) error {
	if !key.Valid() {
		return domain.NewInvalidInputError("answer key must be one of A, B, C or D")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.(*inProgress)
	if !ok {
		return ErrSessionCompleted
	}
	st.answers[st.currentIndex] = key
	return nil
}

// GoNext moves to the following question. On the last question it submits
// the quiz instead and reports true.
func (s *Session) GoNext() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.(*inProgress)
	if !ok {
		return false, ErrSessionCompleted
	}
	if st.currentIndex < len(s.questions)-1 {
		st.currentIndex++
		return false, nil
	}
	s.completeLocked(st)
	return true, nil
}

// GoPrevious moves back one question.
func (s *Session) GoPrevious() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.(*inProgress)
	if !ok {
		return ErrSessionCompleted
	}
	if st.currentIndex == 0 {
		return ErrAtFirstQuestion
	}
	st.currentIndex--
	return nil
}

// Tick takes one second off the clock. It reports true only when this tick
// submitted the quiz, which happens when the clock reaches zero with
// AutoSubmitOnExpiry set.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remaining == 0 {
		return false
	}
	s.remaining--
	if s.remaining > 0 || !s.autoSubmit {
		return false
	}
	if st, ok := s.state.(*inProgress); ok {
		s.completeLocked(st)
		return true
	}
	return false
}

// RemainingSeconds never goes below zero.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.phase()
}

// Outcome returns copies of the submitted answers and the score. ok is false
// while the session is in progress.
func (s *Session) Outcome() (answers []domain.OptionKey, score domain.Score, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, isDone := s.state.(*completed)
	if !isDone {
		return nil, domain.Score{}, false
	}
	answers = make([]domain.OptionKey, len(st.answers))
	copy(answers, st.answers)
	return answers, st.score, true
}

// ResolveFeedback settles the pending feedback with text or err. It reports
// false when there is nothing pending, in which case nothing changes.
func (s *Session) ResolveFeedback(text string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.(*completed)
	if !ok || st.feedback != FeedbackPending {
		return false
	}
	if err != nil {
		st.feedback = FeedbackFailed
		st.err = err
		return true
	}
	st.feedback = FeedbackReady
	st.text = text
	return true
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []domain.Question {
	qs := make([]domain.Question, len(s.questions))
	copy(qs, s.questions)
	return qs
}

func (s *Session) completeLocked(st *inProgress) {
	answers := make([]domain.OptionKey, len(st.answers))
	copy(answers, st.answers)
	// New rejects empty question lists, so scoring cannot fail here.
	score, _ := domain.CalculateScore(s.questions, answers)
	s.state = &completed{
		answers:  answers,
		score:    score,
		feedback: FeedbackPending,
	}
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	Phase            Phase
	CurrentIndex     int
	Total            int
	Answers          []domain.OptionKey
	RemainingSeconds int
	Score            *domain.Score
	FeedbackStatus   FeedbackStatus
	Feedback         string
	FeedbackError    error
}

// Snapshot captures the session under its lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:            s.state.phase(),
		Total:            len(s.questions),
		RemainingSeconds: s.remaining,
	}
	switch st := s.state.(type) {
	case *inProgress:
		snap.CurrentIndex = st.currentIndex
		snap.Answers = append([]domain.OptionKey(nil), st.answers...)
	case *completed:
		score := st.score
		snap.CurrentIndex = len(s.questions) - 1
		snap.Answers = append([]domain.OptionKey(nil), st.answers...)
		snap.Score = &score
		snap.FeedbackStatus = st.feedback
		snap.Feedback = st.text
		snap.FeedbackError = st.err
	}
	return snap
}
