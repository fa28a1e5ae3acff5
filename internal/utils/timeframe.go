package utils

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTimeframe validates a project timeframe and returns its end date.
// Accepted forms: a single ISO date "2025-03-01", or a range
// "2025-03-01..2025-06-30" with start <= end.
func ParseTimeframe(tf string) (time.Time, error) {
	tf = strings.TrimSpace(tf)
	if tf == "" {
		return time.Time{}, fmt.Errorf("project_timeframe is required")
	}

	if !strings.Contains(tf, "..") {
		end, err := time.Parse(dateLayout, tf)
		if err != nil {
			return time.Time{}, fmt.Errorf("project_timeframe must be YYYY-MM-DD")
		}
		return end, nil
	}

	parts := strings.SplitN(tf, "..", 2)
	start, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("project_timeframe start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("project_timeframe end must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, fmt.Errorf("project_timeframe start must not be after end")
	}
	return end, nil
}
