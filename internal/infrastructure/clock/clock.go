package clock

import (
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
)

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a SystemClock
func New() domain.Clock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now()
}
