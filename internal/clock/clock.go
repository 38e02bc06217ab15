package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time so confirmation and closure
// timestamps stay deterministic under test.
type Clock interface {
	Now() time.Time
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

type SystemClock struct{}

func NewSystemClock() Clock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
