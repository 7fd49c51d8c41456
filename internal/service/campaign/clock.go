// internal/service/campaign/clock.go
package campaign

import "time"

// Clock abstracts time.Now so expiry evaluation is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
