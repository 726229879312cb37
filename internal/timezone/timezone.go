package timezone

import (
	"sync/atomic"
	"time"
)

const fallback = "UTC"

var defaultTZ atomic.Value

func init() {
	defaultTZ.Store(fallback)
}

// SetDefault changes the zone used for salons without a valid timezone.
// Invalid names are ignored.
func SetDefault(tz string) {
	if IsValid(tz) {
		defaultTZ.Store(tz)
	}
}

func Default() string {
	return defaultTZ.Load().(string)
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil && tz != "" {
		return loc
	}
	if loc, err := time.LoadLocation(Default()); err == nil {
		return loc
	}
	return time.UTC
}
