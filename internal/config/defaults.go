package config

// DefaultConfig returns sensible defaults. Drive settings are left empty
// on purpose: sync reports NotConfigured until the user fills them in.
func DefaultConfig() *Config {
	return &Config{
		Drive: DriveConfig{
			FileName: "Health Connect.zip",
		},
		Goals: GoalConfig{
			DailySteps: 10000,
			SleepHours: 8,
		},
		Timezone: "Local",
	}
}
