package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/logger"
	"github.com/korjavin/kitchentimer/pkg/models"
	"github.com/korjavin/kitchentimer/pkg/storage"
)

// Service records finished timers and aggregates them per chat
type Service struct {
	store  *storage.Store
	logger *logger.Logger
}

// New creates a new statistics service
func New(store *storage.Store) *Service {
	return &Service{
		store:  store,
		logger: logger.New("stats"),
	}
}

func statsKey(chatID int64) string {
	return fmt.Sprintf("stats:%d", chatID)
}

func completionPrefix(chatID int64) string {
	return fmt.Sprintf("completion:%d:", chatID)
}

// completionKey sorts lexicographically by finish time. The timer ID keeps
// timers finishing on the same tick apart
func completionKey(chatID int64, at time.Time, timerID string) string {
	return fmt.Sprintf("%s%020d:%s", completionPrefix(chatID), at.UnixNano(), timerID)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RecordCompletion stores a history entry for the timer and updates the
// chat's statistics
func (s *Service) RecordCompletion(t models.Timer, at time.Time) error {
	completion := models.Completion{
		TimerID:         t.ID,
		ChatID:          t.ChatID,
		RecipeID:        t.RecipeID,
		Name:            t.Name,
		DurationSeconds: t.DurationSeconds,
		FinishedAt:      at,
	}
	if err := s.store.Set(completionKey(t.ChatID, at, t.ID), completion); err != nil {
		return errors.Wrap(err, "failed to save completion")
	}

	var stats models.Statistics
	err := s.store.Update(statsKey(t.ChatID), &stats, func(found bool) error {
		if !found || stats.TimerStats == nil {
			stats.ChatID = t.ChatID
			stats.TimerStats = make(map[string]models.TimerStat)
		}

		stats.TotalCompleted++
		stats.TotalSeconds += int64(t.DurationSeconds)
		stats.LastFinishedAt = at

		key := normalizeName(t.Name)
		timerStat, exists := stats.TimerStats[key]
		if !exists {
			timerStat = models.TimerStat{Name: t.Name}
		}
		timerStat.Count++
		timerStat.TotalSeconds += int64(t.DurationSeconds)
		timerStat.LastFinishedAt = at
		stats.TimerStats[key] = timerStat
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to update statistics")
	}

	s.logger.Debug("Recorded completion of %q for chat %d", t.Name, t.ChatID)
	return nil
}

// GetStatistics retrieves the statistics for a chat. A chat without any
// finished timer gets empty statistics
func (s *Service) GetStatistics(chatID int64) (*models.Statistics, error) {
	var stats models.Statistics
	err := s.store.Get(statsKey(chatID), &stats)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.Statistics{
			ChatID:     chatID,
			TimerStats: make(map[string]models.TimerStat),
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load statistics")
	}
	return &stats, nil
}

// GetTopTimers returns the most frequently finished timers
func (s *Service) GetTopTimers(chatID int64, limit int) ([]models.TimerStat, error) {
	stats, err := s.GetStatistics(chatID)
	if err != nil {
		return nil, err
	}

	timers := make([]models.TimerStat, 0, len(stats.TimerStats))
	for _, timerStat := range stats.TimerStats {
		timers = append(timers, timerStat)
	}

	// Sort by count (descending), then name for a stable order
	sort.Slice(timers, func(i, j int) bool {
		if timers[i].Count != timers[j].Count {
			return timers[i].Count > timers[j].Count
		}
		return timers[i].Name < timers[j].Name
	})

	if limit >= 0 && len(timers) > limit {
		timers = timers[:limit]
	}
	return timers, nil
}

// RecentCompletions returns up to limit history entries, newest first
func (s *Service) RecentCompletions(chatID int64, limit int) ([]models.Completion, error) {
	if limit <= 0 {
		return nil, nil
	}

	keys, err := s.store.List(completionPrefix(chatID))
	if err != nil {
		return nil, err
	}

	result := make([]models.Completion, 0, limit)
	for i := len(keys) - 1; i >= 0 && len(result) < limit; i-- {
		var c models.Completion
		if err := s.store.Get(keys[i], &c); err != nil {
			s.logger.Error("Failed to get completion %s: %v", keys[i], err)
			continue
		}
		result = append(result, c)
	}
	return result, nil
}
