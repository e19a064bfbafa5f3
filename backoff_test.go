package captcha

import (
	"testing"
	"time"
)

func TestBackoffGrowthAndCap(t *testing.T) {
	b := BackoffConfig{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
	}

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second, // stays capped
	}
	for attempt, want := range expected {
		if got := b.Duration(attempt); got != want {
			t.Fatalf("Duration(%d) = %s, want %s", attempt, got, want)
		}
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	b := BackoffConfig{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
		JitterPct:   0.3,
	}

	lo := 70 * time.Millisecond
	hi := 130 * time.Millisecond
	for i := 0; i < 100; i++ {
		d := b.Duration(0)
		if d < lo || d > hi {
			t.Fatalf("Duration(0) = %s, outside [%s, %s]", d, lo, hi)
		}
	}
}
