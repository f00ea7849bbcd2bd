package scheduler

import "time"

// Ticker delivers periodic ticks until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests inject a fake to drive ticks by hand
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the default Clock backed by time.Ticker
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }
