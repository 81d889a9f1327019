package resilience

import "time"

// Default circuit breaker settings
const (
	DefaultMaxRequests           uint32  = 5
	DefaultFailureThreshold      uint32  = 5
	DefaultFailureRatioThreshold float64 = 0.5
	DefaultMinRequestsToTrip     uint32  = 10
)

var (
	DefaultInterval = 60 * time.Second
	DefaultTimeout  = 30 * time.Second
)
