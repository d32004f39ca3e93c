package engine

import (
	"time"
)

// Config holds all parameters for the monitor client.
type Config struct {
	BaseURL   string
	RunID     string
	Interval  time.Duration
	TimeoutMs int

	// Follow keeps polling a run until it leaves the active state.
	Follow bool

	// ReportOnly fetches the final report once and exits.
	ReportOnly bool

	// SuccessfulItems switches the report endpoint to the corrected success
	// accounting when set to a non-negative value.
	SuccessfulItems int

	ColorMode string
	Debug     bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://127.0.0.1:8080",
		Interval:        2 * time.Second,
		TimeoutMs:       5000,
		SuccessfulItems: -1,
		ColorMode:       "auto",
	}
}
