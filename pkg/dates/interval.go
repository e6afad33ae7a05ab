package dates

// Interval is a closed range of calendar dates: both Start and End belong to
// the interval. A one-day interval has Start == End.
type Interval struct {
	Start Date
	End   Date
}

// NewInterval builds an interval from already-validated dates.
func NewInterval(start, end Date) Interval {
	return Interval{Start: start, End: end}
}

// Contains reports whether day falls inside the interval, boundaries included.
func (iv Interval) Contains(day Date) bool {
	return !day.Before(iv.Start) && !day.After(iv.End)
}

// Conflicts reports whether two closed intervals share at least one day.
// Intervals that touch at a single boundary day conflict: a booking ending
// June 5 and another starting June 5 both occupy that day.
func Conflicts(existing, candidate Interval) bool {
	return !existing.Start.After(candidate.End) && !existing.End.Before(candidate.Start)
}
