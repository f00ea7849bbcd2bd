package models

import (
	"time"
)

// ManualRecipe is the recipe ID of timers that were not started from a recipe
const ManualRecipe = "manual"

// Timer is a snapshot of one cooking timer
type Timer struct {
	ID               string    `json:"id"`
	Seq              uint64    `json:"seq"`
	ChatID           int64     `json:"chat_id,omitempty"`
	RecipeID         string    `json:"recipe_id"`
	Name             string    `json:"name"`
	DurationSeconds  int       `json:"duration_seconds"`
	RemainingSeconds int       `json:"remaining_seconds"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// Elapsed reports whether the timer has counted all the way down
func (t Timer) Elapsed() bool {
	return t.RemainingSeconds == 0
}

// Completion is the history record written when a timer reaches zero
type Completion struct {
	TimerID         string    `json:"timer_id"`
	ChatID          int64     `json:"chat_id"`
	RecipeID        string    `json:"recipe_id"`
	Name            string    `json:"name"`
	DurationSeconds int       `json:"duration_seconds"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Statistics represents the completion statistics for a chat
type Statistics struct {
	ChatID         int64                `json:"chat_id"`
	TotalCompleted int                  `json:"total_completed"`
	TotalSeconds   int64                `json:"total_seconds"`
	TimerStats     map[string]TimerStat `json:"timer_stats"` // normalized name -> TimerStat
	LastFinishedAt time.Time            `json:"last_finished_at,omitempty"`
}

// TimerStat represents how often a named timer finished in a chat
type TimerStat struct {
	Name           string    `json:"name"`
	Count          int       `json:"count"`
	TotalSeconds   int64     `json:"total_seconds"`
	LastFinishedAt time.Time `json:"last_finished_at"`
}
