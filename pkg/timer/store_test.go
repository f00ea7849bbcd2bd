package timer

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/kitchentimer/pkg/models"
)

func mustCreate(t *testing.T, s *Store, name string, duration int, opts ...Option) string {
	t.Helper()
	id, err := s.Create(name, duration, opts...)
	require.NoError(t, err)
	return id
}

func mustGet(t *testing.T, s *Store, id string) models.Timer {
	t.Helper()
	tm, err := s.Get(id)
	require.NoError(t, err)
	return tm
}

func ids(timers []models.Timer) []string {
	out := make([]string, 0, len(timers))
	for _, t := range timers {
		out = append(out, t.ID)
	}
	return out
}

func TestCreate(t *testing.T) {
	s := NewStore()

	id := mustCreate(t, s, "  Pasta ", 600, WithChat(42))

	tm := mustGet(t, s, id)
	assert.Equal(t, "Pasta", tm.Name)
	assert.Equal(t, 600, tm.DurationSeconds)
	assert.Equal(t, 600, tm.RemainingSeconds)
	assert.False(t, tm.IsActive)
	assert.Equal(t, int64(42), tm.ChatID)
	assert.Equal(t, models.ManualRecipe, tm.RecipeID)
	assert.Equal(t, uint64(1), tm.Seq)
	assert.False(t, tm.CreatedAt.IsZero())
}

func TestCreateWithRecipe(t *testing.T) {
	s := NewStore()

	id := mustCreate(t, s, "Risotto", 1080, WithRecipe("recipe-7"))
	assert.Equal(t, "recipe-7", mustGet(t, s, id).RecipeID)

	id = mustCreate(t, s, "Rice", 1080, WithRecipe(""))
	assert.Equal(t, models.ManualRecipe, mustGet(t, s, id).RecipeID)
}

func TestCreateInvalid(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		duration int
	}{
		{"EmptyName", "", 60},
		{"BlankName", "   ", 60},
		{"ZeroDuration", "Eggs", 0},
		{"NegativeDuration", "Eggs", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_, err := s.Create(tt.label, tt.duration)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "err = %v", err)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestIDsAreUnique(t *testing.T) {
	s := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := mustCreate(t, s, "Tea", 180)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s := NewStore()
	next := 0
	s.newID = func() string {
		next++
		return string(rune('a' + next))
	}

	first := mustCreate(t, s, "Tea", 180)
	require.True(t, s.Delete(first))
	second := mustCreate(t, s, "Tea", 180)

	assert.NotEqual(t, first, second)
	assert.Equal(t, uint64(2), mustGet(t, s, second).Seq)
}

func TestNotFound(t *testing.T) {
	s := NewStore()

	assert.True(t, errors.Is(s.Start("missing"), ErrNotFound))
	assert.True(t, errors.Is(s.Pause("missing"), ErrNotFound))
	assert.True(t, errors.Is(s.Reset("missing"), ErrNotFound))

	_, err := s.Toggle("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStartPause(t *testing.T) {
	s := NewStore()
	id := mustCreate(t, s, "Steak", 10)

	require.NoError(t, s.Start(id))
	assert.True(t, mustGet(t, s, id).IsActive)
	assert.Equal(t, 1, s.ActiveCount())

	s.Tick()
	require.NoError(t, s.Pause(id))
	tm := mustGet(t, s, id)
	assert.False(t, tm.IsActive)
	assert.Equal(t, 9, tm.RemainingSeconds)

	s.Tick()
	assert.Equal(t, 9, mustGet(t, s, id).RemainingSeconds)
}

func TestStartElapsedIsNoop(t *testing.T) {
	s := NewStore()
	id := mustCreate(t, s, "Toast", 1)
	require.NoError(t, s.Start(id))
	s.Tick()

	require.NoError(t, s.Start(id))
	assert.False(t, mustGet(t, s, id).IsActive)

	active, err := s.Toggle(id)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, 0, s.ActiveCount())

	require.NoError(t, s.Reset(id))
	require.NoError(t, s.Start(id))
	assert.True(t, mustGet(t, s, id).IsActive)
}

func TestToggle(t *testing.T) {
	s := NewStore()
	id := mustCreate(t, s, "Soup", 30)

	active, err := s.Toggle(id)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = s.Toggle(id)
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, mustGet(t, s, id).IsActive)
}

func TestResetFromAnyState(t *testing.T) {
	prepare := map[string]func(s *Store, id string){
		"Fresh":   func(s *Store, id string) {},
		"Running": func(s *Store, id string) { _ = s.Start(id); s.Tick() },
		"Paused":  func(s *Store, id string) { _ = s.Start(id); s.Tick(); _ = s.Pause(id) },
		"Elapsed": func(s *Store, id string) {
			_ = s.Start(id)
			for i := 0; i < 5; i++ {
				s.Tick()
			}
		},
	}

	for name, fn := range prepare {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			id := mustCreate(t, s, "Eggs", 3)
			fn(s, id)

			require.NoError(t, s.Reset(id))

			tm := s.List()[0]
			assert.Equal(t, 3, tm.RemainingSeconds)
			assert.Equal(t, 3, tm.DurationSeconds)
			assert.False(t, tm.IsActive)
		})
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	a := mustCreate(t, s, "A", 5)
	b := mustCreate(t, s, "B", 5)
	require.NoError(t, s.Start(a))

	assert.True(t, s.Delete(a))
	assert.Equal(t, []string{b}, ids(s.List()))
	assert.Equal(t, 0, s.ActiveCount())
	assert.Empty(t, s.Tick())

	before := s.List()
	assert.False(t, s.Delete(a))
	assert.False(t, s.Delete("never-existed"))
	assert.Equal(t, before, s.List())
}

func TestTickNTimes(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 20} {
		s := NewStore()
		id := mustCreate(t, s, "Rice", 5)
		require.NoError(t, s.Start(id))

		for i := 0; i < n; i++ {
			s.Tick()
		}

		want := 5 - n
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, mustGet(t, s, id).RemainingSeconds, "after %d ticks", n)
	}
}

func TestZeroCrossingReportedOnce(t *testing.T) {
	s := NewStore()
	id := mustCreate(t, s, "Tea", 2)
	require.NoError(t, s.Start(id))

	var reports int
	for i := 0; i < 10; i++ {
		for _, tm := range s.Tick() {
			if tm.ID == id {
				reports++
				assert.Equal(t, 0, tm.RemainingSeconds)
				assert.False(t, tm.IsActive)
			}
		}
	}
	assert.Equal(t, 1, reports)
}

func TestSimultaneousCompletionsInCreationOrder(t *testing.T) {
	s := NewStore()
	first := mustCreate(t, s, "First", 3)
	second := mustCreate(t, s, "Second", 3)
	third := mustCreate(t, s, "Third", 3)

	// start out of creation order
	require.NoError(t, s.Start(third))
	require.NoError(t, s.Start(first))
	require.NoError(t, s.Start(second))

	assert.Empty(t, s.Tick())
	assert.Empty(t, s.Tick())
	assert.Equal(t, []string{first, second, third}, ids(s.Tick()))
}

func TestScenarioFiveAndTwo(t *testing.T) {
	s := NewStore()
	a := mustCreate(t, s, "A", 5)
	b := mustCreate(t, s, "B", 2)
	require.NoError(t, s.Start(a))
	require.NoError(t, s.Start(b))

	assert.Empty(t, s.Tick())
	assert.Equal(t, []string{b}, ids(s.Tick()))

	ta, tb := mustGet(t, s, a), mustGet(t, s, b)
	assert.Equal(t, 3, ta.RemainingSeconds)
	assert.True(t, ta.IsActive)
	assert.Equal(t, 0, tb.RemainingSeconds)
	assert.False(t, tb.IsActive)

	assert.Empty(t, s.Tick())
	assert.Empty(t, s.Tick())
	assert.Equal(t, []string{a}, ids(s.Tick()))
	assert.Equal(t, 0, s.ActiveCount())
}

func TestTickIndependentOfTimerCount(t *testing.T) {
	s := NewStore()
	for i := 0; i < 50; i++ {
		id := mustCreate(t, s, "Batch", 10)
		require.NoError(t, s.Start(id))
	}

	s.Tick()
	for _, tm := range s.List() {
		assert.Equal(t, 9, tm.RemainingSeconds)
	}
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()
	var live []string

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(7); {
		case op == 0 || len(live) == 0:
			live = append(live, mustCreate(t, s, "Random", 1+rng.Intn(8)))
		case op == 1:
			_ = s.Start(live[rng.Intn(len(live))])
		case op == 2:
			_ = s.Pause(live[rng.Intn(len(live))])
		case op == 3:
			_ = s.Reset(live[rng.Intn(len(live))])
		case op == 4:
			i := rng.Intn(len(live))
			s.Delete(live[i])
			live = append(live[:i], live[i+1:]...)
		default:
			for _, tm := range s.Tick() {
				require.Equal(t, 0, tm.RemainingSeconds)
				require.False(t, tm.IsActive)
			}
		}

		for _, tm := range s.List() {
			require.GreaterOrEqual(t, tm.RemainingSeconds, 0)
			require.LessOrEqual(t, tm.RemainingSeconds, tm.DurationSeconds)
			if tm.IsActive {
				require.Greater(t, tm.RemainingSeconds, 0)
			}
		}
	}
}

func TestListOrderAndCopies(t *testing.T) {
	s := NewStore()
	a := mustCreate(t, s, "A", 5, WithChat(1))
	b := mustCreate(t, s, "B", 5, WithChat(2))
	c := mustCreate(t, s, "C", 5, WithChat(1))

	assert.Equal(t, []string{a, b, c}, ids(s.List()))
	assert.Equal(t, []string{a, c}, ids(s.ListChat(1)))
	assert.Empty(t, s.ListChat(3))

	snapshot := s.List()
	snapshot[0].RemainingSeconds = 0
	snapshot[0].IsActive = true
	assert.Equal(t, 5, mustGet(t, s, a).RemainingSeconds)
	assert.False(t, mustGet(t, s, a).IsActive)
}

func TestOnActivate(t *testing.T) {
	s := NewStore()
	var calls int
	s.OnActivate(func() {
		calls++
		// the hook runs outside the lock
		_ = s.ActiveCount()
	})

	id := mustCreate(t, s, "Tea", 1)
	require.NoError(t, s.Start(id))
	assert.Equal(t, 1, calls)

	_, err := s.Toggle(id)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "pausing does not activate")

	_, err = s.Toggle(id)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	s.Tick()
	require.NoError(t, s.Start(id))
	assert.Equal(t, 2, calls, "starting an elapsed timer does not activate")
}
