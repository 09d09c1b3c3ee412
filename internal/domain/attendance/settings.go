package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
)

// EarlyCheckoutWindowMinutes is how long before the configured end time a check-out counts as early.
const EarlyCheckoutWindowMinutes = 120

// WorkSettings holds the organization schedule. Times are HH:MM in the organization offset.
type WorkSettings struct {
	WorkStartTime        string
	WorkEndTime          string
	LateThresholdMinutes int
}

func (w WorkSettings) Validate() error {
	start, err := clock.ParseHHMM(w.WorkStartTime)
	if err != nil {
		return fmt.Errorf("work start time: %w", err)
	}
	end, err := clock.ParseHHMM(w.WorkEndTime)
	if err != nil {
		return fmt.Errorf("work end time: %w", err)
	}
	if end <= start {
		return fmt.Errorf("work end time must be after work start time")
	}
	if w.LateThresholdMinutes < 0 {
		return fmt.Errorf("late threshold must not be negative")
	}
	return nil
}

// StatusAt decides present or late for a check-in at now, which must already be
// in the organization offset. Only minutes strictly past the threshold are late.
func (w WorkSettings) StatusAt(now time.Time) (Status, error) {
	start, err := clock.ParseHHMM(w.WorkStartTime)
	if err != nil {
		return "", fmt.Errorf("failed to parse work start time: %w", err)
	}
	threshold := start + w.LateThresholdMinutes
	if clock.MinutesOfDay(now) > threshold {
		return StatusLate, nil
	}
	return StatusPresent, nil
}

// IsEarlyCheckout reports whether now falls before end time minus the early window.
func (w WorkSettings) IsEarlyCheckout(now time.Time) (bool, error) {
	end, err := clock.ParseHHMM(w.WorkEndTime)
	if err != nil {
		return false, fmt.Errorf("failed to parse work end time: %w", err)
	}
	return clock.MinutesOfDay(now) < end-EarlyCheckoutWindowMinutes, nil
}
