package model

import "time"

// SlotLock is an advisory lock serializing conflict checks for one location.
// The lock is an insert into a collection whose _id is derived from the
// location id: a duplicate key error means another writer holds it. A TTL
// index on ExpiresAt reclaims locks abandoned by crashed processes.
// Token identifies the acquisition: release filters on it, so a holder whose
// lock was reclaimed after expiry cannot delete the next holder's lock.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
