// Package gesture holds the latest sample published by the external hand
// detector. It is a single-slot "last value wins" exchange: the producer
// runs its own inference loop at its own cadence, and the engine only ever
// reads the newest value, so stale samples are dropped naturally.
package gesture

import (
	"sync"
	"time"
)

// Sample is the detector's output: a normalized hand position plus the
// detection flag.
type Sample struct {
	Horizontal float32 `json:"horizontal"`
	Vertical   float32 `json:"vertical"`
	Detected   bool    `json:"detected"`
}

type Slot struct {
	mu      sync.Mutex
	sample  Sample
	at      time.Time
	written bool
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Publish(sample Sample) {
	s.mu.Lock()
	s.sample = sample
	s.at = time.Now()
	s.written = true
	s.mu.Unlock()
}

// Latest returns the newest sample. A sample older than staleAfter, or no
// sample at all, comes back with Detected forced to false: absence of a
// recent update is indistinguishable from "not detected".
func (s *Slot) Latest(staleAfter time.Duration) Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	sample := s.sample
	if !s.written || time.Since(s.at) > staleAfter {
		sample.Detected = false
	}
	return sample
}
