// Package config handles application configuration management.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration. Everything here is a
// read-only input to the sync and aggregation core.
type Config struct {
	// Drive describes where the Health Connect archive lives.
	Drive DriveConfig `koanf:"drive"`

	// Goals are the user's daily targets, consumed by scoring.
	Goals GoalConfig `koanf:"goals"`

	// Timezone is the IANA zone all timestamps are normalized to
	// before bucketing.
	Timezone string `koanf:"timezone"`
}

// DriveConfig identifies the remote folder and archive to fetch.
type DriveConfig struct {
	FolderID string `koanf:"folder_id"`
	Account  string `koanf:"account"`
	FileName string `koanf:"file_name"`
}

// GoalConfig holds the named targets used for goal-relative scoring.
type GoalConfig struct {
	DailySteps int     `koanf:"daily_steps"`
	SleepHours float64 `koanf:"sleep_hours"`
}

// Configured reports whether the remote side is set up. Sync refuses to
// run without it; local analytics over already-merged data still work.
func (c *Config) Configured() bool {
	return c.Drive.FolderID != "" && c.Drive.Account != ""
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
