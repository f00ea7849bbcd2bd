package scheduler

import (
	"sync"
	"time"

	"github.com/korjavin/kitchentimer/pkg/logger"
	"github.com/korjavin/kitchentimer/pkg/models"
)

// DefaultPeriod is the nominal length of one tick
const DefaultPeriod = time.Second

// State is the scheduler's run state
type State int

const (
	// StateIdle means no ticker is armed
	StateIdle State = iota
	// StateRunning means a ticker is armed and the store is being ticked
	StateRunning
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// CompletionFunc is called once for every timer that reaches zero
type CompletionFunc func(t models.Timer)

// TimerStore is the part of the timer store the scheduler drives
type TimerStore interface {
	Tick() []models.Timer
	ActiveCount() int
	OnActivate(fn func())
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the clock used to create tickers
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithPeriod changes the tick period
func WithPeriod(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.period = d
		}
	}
}

// Scheduler ticks the timer store while any timer is active
type Scheduler struct {
	store  TimerStore
	clock  Clock
	period time.Duration
	logger *logger.Logger

	mu         sync.Mutex
	state      State
	stop       chan struct{}
	closed     bool
	onComplete CompletionFunc

	wg sync.WaitGroup
}

// New creates a scheduler for store and hooks it to the store's
// activations. If the store already has active timers the ticker is armed
// immediately
func New(store TimerStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  store,
		clock:  SystemClock,
		period: DefaultPeriod,
		logger: logger.New("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}

	store.OnActivate(s.wake)
	s.wake()
	return s
}

// OnComplete sets the completion callback. The callback runs on the
// scheduler goroutine and must not call Close
func (s *Scheduler) OnComplete(fn CompletionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// State returns the current run state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close stops the ticker and waits for the scheduler goroutine to exit.
// Later activations are ignored
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.state = StateIdle
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler closed")
}

// wake arms the ticker if the scheduler is idle and something is active.
// Redundant calls while running do nothing
func (s *Scheduler) wake() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state == StateRunning {
		return
	}
	if s.store.ActiveCount() == 0 {
		return
	}

	stop := make(chan struct{})
	ticker := s.clock.NewTicker(s.period)
	s.stop = stop
	s.state = StateRunning

	s.wg.Add(1)
	go s.run(ticker, stop)
	s.logger.Debug("Ticker armed with period %v", s.period)
}

func (s *Scheduler) run(ticker Ticker, stop chan struct{}) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
		}

		select {
		case <-stop:
			return
		default:
		}

		s.step()

		if s.drained(stop) {
			return
		}
	}
}

// step advances the store by one tick and dispatches completions in order
func (s *Scheduler) step() {
	finished := s.store.Tick()
	if len(finished) == 0 {
		return
	}

	s.mu.Lock()
	callback := s.onComplete
	s.mu.Unlock()

	for _, t := range finished {
		s.logger.Info("Timer %q (%s) reached zero", t.Name, t.ID)
		if callback != nil {
			callback(t)
		}
	}
}

// drained moves the scheduler to idle when nothing is active anymore and
// reports whether the goroutine owning stop should exit
func (s *Scheduler) drained(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != stop {
		return true
	}
	if s.store.ActiveCount() > 0 {
		return false
	}

	s.stop = nil
	s.state = StateIdle
	s.logger.Debug("No active timers, ticker stopped")
	return true
}
