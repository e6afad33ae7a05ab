package model

import "time"

// NextUpdatedAt returns the concurrency token written by a successful
// mutation: the current UTC time at millisecond precision, bumped by one
// millisecond when the clock has not moved past the previous token. Two
// writes landing in the same millisecond still produce distinct tokens.
func NextUpdatedAt(prior time.Time) time.Time {
	prior = prior.UTC().Truncate(time.Millisecond)
	next := time.Now().UTC().Truncate(time.Millisecond)
	if !next.After(prior) {
		next = prior.Add(time.Millisecond)
	}
	return next
}
