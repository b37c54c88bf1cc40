package worker

import (
	"math/rand"
	"time"

	"github.com/hongyusu/random-spanning-tree-approximation/common"
	"github.com/hongyusu/random-spanning-tree-approximation/sweep/dispatcher"
)

// Penalty throttles a worker whose node keeps failing. It is owned by one
// worker and never drops below 0.
type Penalty int

// Apply returns p moved by delta, clamped at 0.
func (p Penalty) Apply(delta int) Penalty {
	if n := int(p) + delta; n > 0 {
		return Penalty(n)
	}
	return 0
}

// Delta is the penalty change for a dispatch outcome.
func Delta(o dispatcher.Outcome) int {
	switch o {
	case dispatcher.Failed:
		return 1
	case dispatcher.Dispatched:
		return -1
	default:
		return 0
	}
}

// BackoffConfig sets how long a worker idles before each pop: a uniform
// jitter in [JitterMin, JitterMax] plus PenaltyUnit per penalty point.
type BackoffConfig struct {
	JitterMin   time.Duration
	JitterMax   time.Duration
	PenaltyUnit time.Duration
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		JitterMin:   common.DefaultJitterMin,
		JitterMax:   common.DefaultJitterMax,
		PenaltyUnit: common.DefaultPenaltyUnit,
	}
}

// Delay draws the next backoff for penalty p.
func (c BackoffConfig) Delay(p Penalty, rnd *rand.Rand) time.Duration {
	jitter := c.JitterMin
	if span := c.JitterMax - c.JitterMin; span > 0 {
		jitter += time.Duration(rnd.Int63n(int64(span) + 1))
	}
	return jitter + time.Duration(p)*c.PenaltyUnit
}
