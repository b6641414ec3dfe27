// Package rate provides the fixed-period gate pacing ASR calls.
package rate

import "time"

// Limiter allows one pass per period of wall time. It does not accumulate
// credit while idle: on a pass the next allowed instant is now+period, not
// prev+period.
type Limiter struct {
	period time.Duration
	next   time.Time
	now    func() time.Time
}

// NewLimiter returns a limiter passing at most hz times per second. The first
// Allow call always passes.
func NewLimiter(hz float64) *Limiter {
	if hz <= 0 {
		hz = 1e-6
	}
	return &Limiter{
		period: time.Duration(float64(time.Second) / hz),
		now:    time.Now,
	}
}

// Allow reports whether a call may proceed now, consuming the slot if so.
func (l *Limiter) Allow() bool {
	now := l.now()
	if now.Before(l.next) {
		return false
	}
	l.next = now.Add(l.period)
	return true
}
