package smoketest

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	HealthCheckAttempts  = 10
	HealthCheckInterval  = 500 * time.Millisecond
	PercentageMultiplier = 100
)
