package model

import "time"

// TripLock is an advisory lock preventing concurrent assignment of the same
// resource slot while the overlap check and insert run.
type TripLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
