package breaker

import "time"

// Clock abstracts time for cooldown accounting.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
