package core

const (
	MaxConcurrentAPICalls = 40
)

var requestLimiter = make(chan struct{}, MaxConcurrentAPICalls)

// RunWithRateLimitedConcurrency executes fn while holding a slot in the
// shared request limiter, bounding fan-out against the domain services.
// The slot is released even when fn panics.
func RunWithRateLimitedConcurrency(fn func()) {
	requestLimiter <- struct{}{}
	defer func() {
		<-requestLimiter
	}()
	fn()
}
