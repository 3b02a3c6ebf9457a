package provenance

import "time"

// IsLate reports whether submitted is strictly after deadline. An unknown
// submission time is never late.
func IsLate(submitted, deadline time.Time) bool {
	if submitted.IsZero() {
		return false
	}
	return submitted.After(deadline)
}
