package util

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// StepClock returns Start, Start+Step, Start+2*Step, ... on successive
// calls. Used for deterministic timestamps.
type StepClock struct {
	mu    sync.Mutex
	Start time.Time
	Step  time.Duration
	n     int64
}

func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{Start: start, Step: step}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Start.Add(time.Duration(c.n) * c.Step)
	c.n++
	return t
}

// Set moves the clock so the next Now returns t.
func (c *StepClock) Set(t time.Time) {
	c.mu.Lock()
	c.Start, c.n = t, 0
	c.mu.Unlock()
}
