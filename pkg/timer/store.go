package timer

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/models"
)

// Timer store errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("timer not found")
)

// Option customizes a timer at creation time
type Option func(*models.Timer)

// WithChat assigns the timer to a chat
func WithChat(chatID int64) Option {
	return func(t *models.Timer) {
		t.ChatID = chatID
	}
}

// WithRecipe links the timer to a recipe
func WithRecipe(recipeID string) Option {
	return func(t *models.Timer) {
		if recipeID != "" {
			t.RecipeID = recipeID
		}
	}
}

// Store is the authoritative collection of timers
type Store struct {
	mu sync.Mutex

	timers map[string]*models.Timer

	// order holds IDs in creation order
	order []string
	seq   uint64

	onActivate func()

	newID func() string
	now   func() time.Time
}

// NewStore creates an empty timer store
func NewStore() *Store {
	return &Store{
		timers: make(map[string]*models.Timer),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// OnActivate registers fn to be called whenever a timer becomes active.
// fn is called after the store lock is released
func (s *Store) OnActivate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onActivate = fn
}

// Create adds a new inactive timer and returns its ID
func (s *Store) Create(name string, durationSeconds int, opts ...Option) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Wrap(ErrInvalidArgument, "timer name is empty")
	}
	if durationSeconds <= 0 {
		return "", errors.Wrapf(ErrInvalidArgument, "duration must be positive, got %d", durationSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &models.Timer{
		ID:               s.newID(),
		Seq:              s.seq,
		RecipeID:         models.ManualRecipe,
		Name:             name,
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		CreatedAt:        s.now(),
	}
	for _, opt := range opts {
		opt(t)
	}

	s.timers[t.ID] = t
	s.order = append(s.order, t.ID)
	return t.ID, nil
}

// Start makes the timer count down. Starting an elapsed timer is a no-op
func (s *Store) Start(id string) error {
	s.mu.Lock()
	t, ok := s.timers[id]
	if !ok {
		s.mu.Unlock()
		return errors.Wrapf(ErrNotFound, "start %s", id)
	}
	activated := s.activate(t)
	hook := s.onActivate
	s.mu.Unlock()

	if activated && hook != nil {
		hook()
	}
	return nil
}

// Pause stops the countdown without changing the remaining time
func (s *Store) Pause(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "pause %s", id)
	}
	t.IsActive = false
	return nil
}

// Toggle starts a paused timer or pauses a running one and reports whether
// the timer is active afterwards
func (s *Store) Toggle(id string) (bool, error) {
	s.mu.Lock()
	t, ok := s.timers[id]
	if !ok {
		s.mu.Unlock()
		return false, errors.Wrapf(ErrNotFound, "toggle %s", id)
	}

	if t.IsActive {
		t.IsActive = false
		s.mu.Unlock()
		return false, nil
	}

	activated := s.activate(t)
	hook := s.onActivate
	s.mu.Unlock()

	if activated && hook != nil {
		hook()
	}
	return activated, nil
}

// activate must be called with s.mu held
func (s *Store) activate(t *models.Timer) bool {
	if t.RemainingSeconds == 0 {
		return false
	}
	t.IsActive = true
	return true
}

// Reset restores the full duration and stops the timer
func (s *Store) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "reset %s", id)
	}
	t.RemainingSeconds = t.DurationSeconds
	t.IsActive = false
	return nil
}

// Delete removes the timer. It reports whether the timer existed; deleting
// an unknown ID does nothing
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Tick advances every active timer by one second and returns the timers
// that reached zero on this tick, in creation order
func (s *Store) Tick() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var finished []models.Timer
	for _, id := range s.order {
		t := s.timers[id]
		if !t.IsActive || t.RemainingSeconds == 0 {
			continue
		}
		t.RemainingSeconds--
		if t.RemainingSeconds == 0 {
			t.IsActive = false
			finished = append(finished, *t)
		}
	}
	return finished
}

// Get returns a copy of the timer
func (s *Store) Get(id string) (models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return models.Timer{}, errors.Wrapf(ErrNotFound, "get %s", id)
	}
	return *t, nil
}

// List returns copies of all timers in creation order
func (s *Store) List() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Timer, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.timers[id])
	}
	return result
}

// ListChat returns copies of the chat's timers in creation order
func (s *Store) ListChat(chatID int64) []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Timer
	for _, id := range s.order {
		if t := s.timers[id]; t.ChatID == chatID {
			result = append(result, *t)
		}
	}
	return result
}

// ActiveCount returns the number of timers currently counting down
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.timers {
		if t.IsActive {
			count++
		}
	}
	return count
}

// Len returns the number of timers
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
