// Package epoch maps timestamps to calendar-day leaderboard keys.
//
// Keys are computed in a fixed reference timezone rather than server-local
// time, so every process agrees on when a day ends regardless of where it
// runs, and daylight-saving shifts in the reference zone move the boundary
// by an hour without ever skipping or repeating a key.
package epoch

import (
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
)

// Reference timezone for day boundaries
const timezone = "Europe/Belgrade"

var location = mustLoadLocation()

func mustLoadLocation() *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		// Fall back to a fixed CET offset if tzdata is unavailable
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// Location returns the reference timezone used for day keys
func Location() *time.Location {
	return location
}

// DayKey returns the calendar-day key (YYYY-MM-DD) for t in the reference
// timezone. Pure and deterministic.
func DayKey(t time.Time) model.EpochKey {
	return model.EpochKey(t.In(location).Format("2006-01-02"))
}
