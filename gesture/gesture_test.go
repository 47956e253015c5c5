package gesture

import (
	"testing"
	"time"
)

func TestEmptySlotReadsAsNotDetected(t *testing.T) {
	s := NewSlot()
	if got := s.Latest(time.Second); got.Detected {
		t.Errorf("empty slot returned a detected sample: %+v", got)
	}
}

func TestLastValueWins(t *testing.T) {
	s := NewSlot()
	s.Publish(Sample{Horizontal: -0.5, Detected: true})
	s.Publish(Sample{Horizontal: 0.25, Vertical: 0.1, Detected: true})
	got := s.Latest(time.Second)
	if !got.Detected || got.Horizontal != 0.25 || got.Vertical != 0.1 {
		t.Errorf("Latest = %+v; expected the newest sample", got)
	}
}

// A stale sample is indistinguishable from "not detected", but the
// position is kept so consumers can hold the last known value.
func TestStaleSampleLosesDetection(t *testing.T) {
	s := NewSlot()
	s.Publish(Sample{Horizontal: 0.7, Detected: true})
	time.Sleep(5 * time.Millisecond)
	got := s.Latest(time.Millisecond)
	if got.Detected {
		t.Errorf("stale sample still detected: %+v", got)
	}
	if got.Horizontal != 0.7 {
		t.Errorf("stale sample lost its position: %+v", got)
	}
}
