package model

import (
	"testing"
	"time"
)

func TestNextUpdatedAt_AlwaysAfterPrior(t *testing.T) {
	tests := []struct {
		name  string
		prior time.Time
	}{
		{"prior in the past", time.Now().UTC().Add(-time.Hour)},
		{"prior this instant", time.Now().UTC()},
		{"prior equals the truncated clock", time.Now().UTC().Truncate(time.Millisecond)},
		{"zero prior", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := NextUpdatedAt(tt.prior)
			if !next.After(tt.prior.UTC().Truncate(time.Millisecond)) {
				t.Errorf("token %v is not strictly after prior %v", next, tt.prior)
			}
			if next.Nanosecond()%int(time.Millisecond) != 0 {
				t.Errorf("token %v carries sub-millisecond precision", next)
			}
		})
	}
}

func TestNextUpdatedAt_SameMillisecondBumps(t *testing.T) {
	// Two writes landing in one millisecond must still produce distinct,
	// increasing tokens.
	first := NextUpdatedAt(time.Now().UTC())
	second := NextUpdatedAt(first)
	if !second.After(first) {
		t.Errorf("second token %v is not after first %v", second, first)
	}
}
