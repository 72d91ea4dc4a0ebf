package services

import (
	"time"
)

// CheckFreshness returns the snapshot age at now and whether it is within maxAge.
// A last_updated in the future counts as fresh.
func CheckFreshness(lastUpdated, now time.Time, maxAge time.Duration) (time.Duration, bool) {
	age := now.Sub(lastUpdated)
	return age, age <= maxAge
}

func IsFresh(lastUpdated, now time.Time, maxAge time.Duration) bool {
	_, fresh := CheckFreshness(lastUpdated, now, maxAge)
	return fresh
}
