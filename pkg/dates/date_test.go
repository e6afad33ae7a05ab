package dates

import "testing"

func TestParse(t *testing.T) {
	valid := []string{"2024-06-01", "2024-12-31", "2000-02-29"}
	for _, s := range valid {
		d, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", s, err)
		}
		if d.String() != s {
			t.Errorf("Parse(%q) = %q", s, d)
		}
	}

	invalid := []string{"", "2024-6-01", "2024-06-1", "2024-13-01", "2024-06-31", "2023-02-29", "June 1 2024", "2024/06/01", "2024-06-01T00:00:00Z"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should have failed", s)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a, b := Date("2024-06-01"), Date("2024-06-02")

	if !a.Before(b) {
		t.Error("2024-06-01 should be before 2024-06-02")
	}
	if !b.After(a) {
		t.Error("2024-06-02 should be after 2024-06-01")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestToday(t *testing.T) {
	if !Today().IsValid() {
		t.Errorf("Today() returned invalid date %q", Today())
	}
}
