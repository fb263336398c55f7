package redis

import "time"

// Metrics records sink operation outcomes.
type Metrics interface {
	Observe(operation string, err error, started time.Time)
}
