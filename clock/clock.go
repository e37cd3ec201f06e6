// Package clock abstracts the monotonic UTC time source the engines read
// "now" from, so sliding/static expiry and eviction logic can be driven
// deterministically in tests.
package clock

import "time"

// Clock returns the current UTC time. Implementations must be safe for
// concurrent use.
type Clock interface {
	// Now returns the current UTC time.
	Now() time.Time
	// NowUnix returns Now() truncated to seconds since the Unix epoch,
	// the unit utc_expiry/utc_creation are stored in.
	NowUnix() int64
}

// System is the real wall-clock implementation.
type System struct{}

// Now returns time.Now().UTC().
func (System) Now() time.Time { return time.Now().UTC() }

// NowUnix returns time.Now().UTC().Unix().
func (System) NowUnix() int64 { return time.Now().UTC().Unix() }

// Default is the package-level System clock, usable without allocation.
var Default Clock = System{}
