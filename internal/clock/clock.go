// Package clock supplies the current time to services so auction boundaries can be tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// System is the wall clock in UTC
type System struct{}

// Now returns the current UTC time
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fake is a manually driven clock for tests
type Fake struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFake creates a Fake clock frozen at now
func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

// Now returns the frozen time
func (f *Fake) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set moves the clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
