// Package breaker implements a fixed-threshold circuit breaker used to stop
// hammering a known-unhealthy endpoint. After three consecutive recorded
// failures the breaker opens for a 60 second cool-down; any single success
// forgives all prior failures.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/habitx-app/habitx-cli/internal/constants"
)

// ErrOpen is returned by Do when the breaker is open and the call was not
// dispatched.
var ErrOpen = errors.New("circuit breaker is open")

// Breaker tracks consecutive failures against a single endpoint family.
// The zero value is not usable; construct with New. Safe for concurrent use.
type Breaker struct {
	mu              sync.Mutex
	failureCount    int
	lastFailureTime time.Time

	threshold   int
	resetWindow time.Duration
	now         func() time.Time
}

// New returns a closed breaker with the standard threshold (3 failures) and
// reset window (60s).
func New() *Breaker {
	return &Breaker{
		threshold:   constants.BreakerFailureThreshold,
		resetWindow: constants.BreakerResetWindow,
		now:         time.Now,
	}
}

// IsOpen reports whether the failure threshold has been reached and the
// cool-down window has not yet elapsed. Crossing the window lazily resets
// the breaker back to its initial state.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOpenLocked()
}

func (b *Breaker) isOpenLocked() bool {
	if b.failureCount < b.threshold {
		return false
	}
	if b.now().Sub(b.lastFailureTime) >= b.resetWindow {
		// Cool-down elapsed: reset and allow traffic again.
		b.failureCount = 0
		b.lastFailureTime = time.Time{}
		return false
	}
	return true
}

// RecordFailure increments the failure count and stamps the failure time.
// There is no upper bound on the count beyond the threshold check.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.lastFailureTime = b.now()
}

// RecordSuccess resets the breaker. Calling it on an already-closed breaker
// is a no-op.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
	b.lastFailureTime = time.Time{}
}

// Do is the single enforcement point around a guarded call. When the breaker
// is open it returns ErrOpen without dispatching fn; otherwise it runs fn and
// records the outcome.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	open := b.isOpenLocked()
	b.mu.Unlock()
	if open {
		return ErrOpen
	}

	if err := fn(); err != nil {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return nil
}
