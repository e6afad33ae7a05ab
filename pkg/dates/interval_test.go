package dates

import (
	"fmt"
	"testing"
)

func iv(start, end string) Interval {
	return Interval{Start: Date(start), End: Date(end)}
}

func TestConflicts_Basic(t *testing.T) {
	tests := []struct {
		name      string
		existing  Interval
		candidate Interval
		want      bool
	}{
		{"identical", iv("2024-06-01", "2024-06-10"), iv("2024-06-01", "2024-06-10"), true},
		{"candidate starts inside", iv("2024-06-01", "2024-06-10"), iv("2024-06-05", "2024-06-15"), true},
		{"candidate ends inside", iv("2024-06-05", "2024-06-15"), iv("2024-06-01", "2024-06-10"), true},
		{"candidate contains existing", iv("2024-06-05", "2024-06-10"), iv("2024-06-01", "2024-06-15"), true},
		{"existing contains candidate", iv("2024-06-01", "2024-06-15"), iv("2024-06-05", "2024-06-10"), true},
		{"touching at boundary day", iv("2024-06-01", "2024-06-05"), iv("2024-06-05", "2024-06-09"), true},
		{"touching at boundary day reversed", iv("2024-06-05", "2024-06-09"), iv("2024-06-01", "2024-06-05"), true},
		{"strictly disjoint", iv("2024-06-01", "2024-06-05"), iv("2024-06-06", "2024-06-09"), false},
		{"far apart", iv("2024-01-01", "2024-01-31"), iv("2024-12-01", "2024-12-31"), false},
		{"single day overlap of single-day intervals", iv("2024-06-05", "2024-06-05"), iv("2024-06-05", "2024-06-05"), true},
		{"single day disjoint", iv("2024-06-05", "2024-06-05"), iv("2024-06-06", "2024-06-06"), false},
		{"across year boundary", iv("2024-12-20", "2025-01-10"), iv("2025-01-01", "2025-01-05"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conflicts(tt.existing, tt.candidate); got != tt.want {
				t.Errorf("Conflicts(%v, %v) = %v, want %v", tt.existing, tt.candidate, got, tt.want)
			}
		})
	}
}

// threeClauseConflicts is the expanded form of the overlap test: the existing
// interval contains the candidate's start, or contains its end, or the
// candidate fully contains the existing interval. Conflicts must agree with it
// for every pair of intervals.
func threeClauseConflicts(existing, candidate Interval) bool {
	containsStart := !existing.Start.After(candidate.Start) && !existing.End.Before(candidate.Start)
	containsEnd := !existing.Start.After(candidate.End) && !existing.End.Before(candidate.End)
	contains := !candidate.Start.After(existing.Start) && !existing.End.After(candidate.End)
	return containsStart || containsEnd || contains
}

func TestConflicts_EquivalentToThreeClauseForm(t *testing.T) {
	// Exhaustive over every valid interval pair within a ten-day window.
	days := make([]Date, 0, 10)
	for d := 1; d <= 10; d++ {
		days = append(days, Date(fmt.Sprintf("2024-06-%02d", d)))
	}

	var intervals []Interval
	for _, s := range days {
		for _, e := range days {
			if !e.Before(s) {
				intervals = append(intervals, Interval{Start: s, End: e})
			}
		}
	}

	for _, a := range intervals {
		for _, b := range intervals {
			got := Conflicts(a, b)
			want := threeClauseConflicts(a, b)
			if got != want {
				t.Fatalf("Conflicts(%v, %v) = %v, three-clause form = %v", a, b, got, want)
			}
		}
	}
}

func TestConflicts_Symmetry(t *testing.T) {
	pairs := [][2]Interval{
		{iv("2024-06-01", "2024-06-10"), iv("2024-06-05", "2024-06-15")},
		{iv("2024-06-01", "2024-06-05"), iv("2024-06-06", "2024-06-09")},
		{iv("2024-06-01", "2024-06-05"), iv("2024-06-05", "2024-06-09")},
		{iv("2024-01-01", "2024-12-31"), iv("2024-06-15", "2024-06-15")},
	}

	for _, p := range pairs {
		if Conflicts(p[0], p[1]) != Conflicts(p[1], p[0]) {
			t.Errorf("Conflicts is not symmetric for %v and %v", p[0], p[1])
		}
	}
}

func TestConflicts_SelfConflict(t *testing.T) {
	for _, interval := range []Interval{
		iv("2024-06-01", "2024-06-10"),
		iv("2024-06-05", "2024-06-05"),
	} {
		if !Conflicts(interval, interval) {
			t.Errorf("interval %v should conflict with itself", interval)
		}
	}
}

func TestInterval_Contains(t *testing.T) {
	interval := iv("2024-06-01", "2024-06-10")

	for _, day := range []Date{"2024-06-01", "2024-06-05", "2024-06-10"} {
		if !interval.Contains(day) {
			t.Errorf("interval should contain %s", day)
		}
	}
	for _, day := range []Date{"2024-05-31", "2024-06-11"} {
		if interval.Contains(day) {
			t.Errorf("interval should not contain %s", day)
		}
	}
}
