// Package pacing spaces out injected demo traffic.
package pacing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultInterval is the pause between two demo messages.
const DefaultInterval = 500 * time.Millisecond

// Interval yields the pause before the next injected message.
type Interval interface {
	Next() time.Duration
}

// Constant always pauses for the same duration.
type Constant struct {
	Every time.Duration
}

// Next returns Every.
func (c Constant) Next() time.Duration {
	return c.Every
}

// Uniform pauses for a duration drawn uniformly from [Min, Max).
type Uniform struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform creates a Uniform interval over [min, max).
func NewUniform(min, max time.Duration) *Uniform {
	return &Uniform{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next draws a duration from the range, or returns Min when the range is empty.
func (u *Uniform) Next() time.Duration {
	if u.Max <= u.Min {
		return u.Min
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Min + time.Duration(u.rng.Int63n(int64(u.Max-u.Min)))
}

// Jittered varies Base by up to +-Jitter (a fraction, 0.1 = 10%).
type Jittered struct {
	Base   time.Duration
	Jitter float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewJittered creates a Jittered interval around base.
func NewJittered(base time.Duration, jitter float64) *Jittered {
	return &Jittered{
		Base:   base,
		Jitter: jitter,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns Base scaled by a random factor in [1-Jitter, 1+Jitter], never negative.
func (j *Jittered) Next() time.Duration {
	if j.Jitter <= 0.0 {
		return j.Base
	}

	j.mu.Lock()
	factor := 1.0 + (j.rng.Float64()*2.0-1.0)*j.Jitter
	j.mu.Unlock()

	if factor < 0.0 {
		factor = 0.0
	}
	return time.Duration(float64(j.Base) * factor)
}

// Kind names an Interval family in configuration.
type Kind string

const (
	// KindConstant selects Constant. It is also used when no kind is given.
	KindConstant Kind = "constant"
	// KindUniform selects Uniform.
	KindUniform Kind = "uniform"
	// KindJittered selects Jittered.
	KindJittered Kind = "jittered"
)

// New builds the Interval named by kind. For uniform pacing the range is
// [base*(1-jitter), base*(1+jitter)).
func New(kind Kind, base time.Duration, jitter float64) (Interval, error) {
	if base < 0 {
		return nil, fmt.Errorf("pacing: negative interval %s", base)
	}

	switch Kind(strings.ToLower(string(kind))) {
	case "", KindConstant:
		return Constant{Every: base}, nil
	case KindUniform:
		spread := time.Duration(float64(base) * jitter)
		return NewUniform(max(base-spread, 0), base+spread), nil
	case KindJittered:
		return NewJittered(base, jitter), nil
	default:
		return nil, fmt.Errorf("pacing: unknown kind %q", kind)
	}
}

// Wait sleeps for the next interval or until ctx is done.
func Wait(ctx context.Context, interval Interval) error {
	d := interval.Next()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
