package domain

import (
	"fmt"
	"math"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
)

// FormatTimeRemaining renders a remaining duration in seconds as spoken text.
func FormatTimeRemaining(seconds int) string {
	if seconds <= 0 {
		return "less than a minute"
	}

	hours := seconds / secondsPerHour
	minutes := (seconds % secondsPerHour) / secondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%d %s and %d %s", hours, pluralize("hour", hours > 1), minutes, pluralize("minute", minutes != 1))
	}

	return fmt.Sprintf("%d %s", minutes, pluralize("minute", minutes != 1))
}

// FormatProgress rounds half away from zero, so 52.5 reads as 53 percent.
func FormatProgress(percent float64) string {
	return fmt.Sprintf("%d percent", int(math.Round(percent)))
}

func pluralize(unit string, plural bool) string {
	if plural {
		return unit + "s"
	}
	return unit
}
