package model

import "time"

// RunID uniquely identifies an attempt session
type RunID string

// Run is a short-lived session record issued at run start and consumed
// exactly once by a matching score submission. Runs left unconsumed are
// swept after an hour.
type Run struct {
	ID      RunID
	OwnerID PlayerID
	Started time.Time
}

// RunTTL is how long an unconsumed run survives before the sweep deletes it
const RunTTL = time.Hour
