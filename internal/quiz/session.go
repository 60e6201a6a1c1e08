package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/flashcards/internal/entities"
)

type State int

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNoCards       = errors.New("no cards to study")
	ErrNotRunning    = errors.New("session is not running")
	ErrNotReset      = errors.New("session must be reset before starting again")
	ErrInvalidStatus = errors.New("status must be mastered or toReview")
	ErrClosed        = errors.New("session is closed")
)

// Results counts the marks given in a session.
type Results struct {
	Mastered int `json:"mastered"`
	ToReview int `json:"toReview"`
}

// Outcome is the mark given to one card.
type Outcome struct {
	FlashcardID uint
	Status      entities.ProgressStatus
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTicker replaces the one-second ticker.
func WithTicker(factory TickerFactory) Option {
	return func(s *Session) { s.newTicker = factory }
}

// Session is a test session. It is safe for concurrent use.
type Session struct {
	logger    *zap.Logger
	newTicker TickerFactory

	mu       sync.Mutex
	state    State
	closed   bool
	cards    []entities.Flashcard
	index    int
	flipped  bool
	results  Results
	outcomes []Outcome
	seconds  int

	// timer generation, bumped on every start so late ticks of an old
	// goroutine are ignored
	gen  uint64
	stop chan struct{}
	done chan struct{}
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:    zap.NewNop(),
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a session over cards and starts the elapsed counter.
func (s *Session) Start(cards []entities.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return ErrClosed
	case s.state != NotStarted:
		return ErrNotReset
	case len(cards) == 0:
		return ErrNoCards
	}

	s.cards = append([]entities.Flashcard(nil), cards...)
	s.index = 0
	s.flipped = false
	s.results = Results{}
	s.outcomes = nil
	s.seconds = 0
	s.state = Running
	s.startTimer()

	s.logger.Debug("test session started", zap.Int("cards", len(cards)))
	return nil
}

// Flip turns the current card over and returns whether the answer is shown.
func (s *Session) Flip() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return false, ErrNotRunning
	}
	s.flipped = !s.flipped
	return s.flipped, nil
}

// Mark records status for the current card and advances. Marking the last
// card finishes the session.
func (s *Session) Mark(status entities.ProgressStatus) error {
	s.mu.Lock()

	if s.state != Running {
		s.mu.Unlock()
		return ErrNotRunning
	}

	switch status {
	case entities.StatusMastered:
		s.results.Mastered++
	case entities.StatusToReview:
		s.results.ToReview++
	default:
		s.mu.Unlock()
		return ErrInvalidStatus
	}
	s.outcomes = append(s.outcomes, Outcome{FlashcardID: s.cards[s.index].ID, Status: status})
	s.flipped = false

	var done chan struct{}
	if s.index < len(s.cards)-1 {
		s.index++
	} else {
		s.state = Finished
		done = s.stopTimer()
		s.logger.Debug("test session finished",
			zap.Int("mastered", s.results.Mastered),
			zap.Int("to_review", s.results.ToReview),
			zap.Int("elapsed_seconds", s.seconds))
	}
	s.mu.Unlock()

	wait(done)
	return nil
}

// Reset stops the session and returns it to NotStarted.
func (s *Session) Reset() {
	s.mu.Lock()
	done := s.stopTimer()
	s.state = NotStarted
	s.cards = nil
	s.index = 0
	s.flipped = false
	s.results = Results{}
	s.outcomes = nil
	s.seconds = 0
	s.mu.Unlock()

	wait(done)
}

// Close stops the elapsed counter for good. Results stay readable.
func (s *Session) Close() {
	s.mu.Lock()
	done := s.stopTimer()
	s.closed = true
	s.mu.Unlock()

	wait(done)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the card on screen. ok is false unless running.
func (s *Session) Current() (card entities.Flashcard, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return entities.Flashcard{}, false
	}
	return s.cards[s.index], true
}

// Position returns the zero-based index of the current card and the session length.
func (s *Session) Position() (index, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, len(s.cards)
}

func (s *Session) Flipped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flipped
}

func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.seconds) * time.Second
}

func (s *Session) Results() Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Outcomes lists the marks in the order they were given.
func (s *Session) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Outcome(nil), s.outcomes...)
}

// startTimer launches the ticker goroutine. Callers hold mu.
func (s *Session) startTimer() {
	s.gen++
	gen := s.gen
	ticker := s.newTicker(time.Second)
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				s.tick(gen)
			}
		}
	}()
}

// stopTimer signals the ticker goroutine and returns a channel closed once
// it exits, or nil when no timer runs. Callers hold mu and must wait on the
// channel after releasing it.
func (s *Session) stopTimer() chan struct{} {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	done := s.done
	s.stop, s.done = nil, nil
	return done
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.state == Running {
		s.seconds++
	}
}

func wait(done chan struct{}) {
	if done != nil {
		<-done
	}
}

// FormatElapsed renders d as mm:ss.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
