// Package scheduler drives the timer store with a single periodic trigger.
// The trigger only exists while at least one timer is counting down; it is
// torn down when the store has nothing active and re-armed on the next start.
// Completion callbacks are dispatched one at a time, in creation order, before
// the next period is processed.
package scheduler
