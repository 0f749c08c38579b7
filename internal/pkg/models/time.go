package models

import (
	"time"
)

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// TimePtr returns a pointer to a copy of t
func TimePtr(t time.Time) *time.Time {
	return &t
}
