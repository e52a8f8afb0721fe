package app

import (
	"time"

	"voxelworld/internal/config"
)

// FPSLimiter paces the frame loop. The limit is read every frame so it can
// change at runtime; 0 disables pacing.
type FPSLimiter struct {
	limit func() int
	next  time.Time
}

// NewFPSLimiter paces to config.GetFPSLimit.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{limit: config.GetFPSLimit}
}

// NewFixedFPSLimiter paces to a constant rate.
func NewFixedFPSLimiter(fps int) *FPSLimiter {
	return &FPSLimiter{limit: func() int { return fps }}
}

// Wait blocks until the next frame is due. It sleeps most of the interval
// and spins for the last 200µs.
func (f *FPSLimiter) Wait() {
	limit := f.limit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}
	target := time.Second / time.Duration(limit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// Resync after a hitch instead of racing to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
