package scheduler

import (
	"github.com/hyp3rd/ewrap"
)

// ErrInvalidSchedule is returned when the scheduler cannot be built.
var ErrInvalidSchedule = ewrap.New("invalid schedule")
