// Package clock provides the time source injected into the scheduling
// engine. Core packages never call time.Now directly — the reference
// "today" used for past-date checks always comes through a Clock, which
// keeps every date rule deterministic under test.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time. Use only at the cmd wiring layer.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. The portal originally pinned its
// simulation date this way (December 17, 2025).
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// NewFixed pins the clock to the given instant.
func NewFixed(t time.Time) Fixed { return Fixed{T: t} }
